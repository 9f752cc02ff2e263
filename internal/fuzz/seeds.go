package fuzztests

import "testing"

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для корпуса

// triviaSeeds cover every branch of the trivia scanner.
var triviaSeeds = []string{
	"",
	"code",
	"#!/usr/bin/env node\n// header\nx",
	"#!sh",
	"  // a\n// b\ncode",
	"/*! pinned */\n/* second */ x",
	"/* open",
	"/*/",
	"/**/",
	"// a\r\n// b\r/* c */",
	"x /* a */\u2028/* b */\u2029y",
	"\u00a0\ufeff// bom and nbsp",
	"// a\u2028// b\u2029/* c */",
	"\t\v\f /* ws */",
	"a / b",
	"// a /* b */\n*/",
	"\xff\xfe// invalid utf8",
}

func addTriviaSeeds(f *testing.F) {
	for _, s := range triviaSeeds {
		for _, pos := range []uint16{0, 1, 3} {
			f.Add(clampSeed([]byte(s)), pos)
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
