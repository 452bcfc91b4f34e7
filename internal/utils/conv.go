package utils

import (
	"strconv"
)

// PageOrDefault 解析页码，缺失或非数字时返回 1，其余原样透传给上游 pid
func PageOrDefault(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return p
}
