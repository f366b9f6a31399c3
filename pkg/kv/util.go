package kv

import (
	"fmt"
	"strings"
)

func sprintf(f string, v ...any) string {
	return strings.TrimRight(fmt.Sprintf(f, v...), "\n")
}
