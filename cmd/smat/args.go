package main

import "strings"

// shortAliases: 两字母短旗标到长旗标的映射（pflag 的 shorthand 只能是单字母）。
var shortAliases = map[string]string{
	"-dp": "--drop-prefix",
	"-ds": "--drop-suffix",
	"-ap": "--add-prefix",
	"-as": "--add-suffix",
}

// valueFlags: 以独立参数形式携带取值的旗标；其后一个参数按原样保留。
var valueFlags = map[string]bool{
	"--drop-prefix": true,
	"--drop-suffix": true,
	"--add-prefix":  true,
	"--add-suffix":  true,
	"--input":       true,
	"-i":            true,
	"--output":      true,
	"-o":            true,
	"--config":      true,
	"-c":            true,
	"--log-level":   true,
}

// normalizeArgs: 在 pflag 解析前将 -dp/-ds/-ap/-as 改写为长旗标。
// 兼容以下形式：
//
//	-dp '\d+'      => --drop-prefix '\d+'
//	-dp='\d+'      => --drop-prefix='\d+'
//	-ap -dp        => --add-prefix -dp（取值不改写）
//
// 遇到 "--" 后停止改写。
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if long, ok := shortAliases[a]; ok {
			a = long
		} else if eq := strings.IndexByte(a, '='); eq > 0 {
			if long, ok := shortAliases[a[:eq]]; ok {
				a = long + a[eq:]
			}
		}
		out = append(out, a)
		if valueFlags[a] && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}
