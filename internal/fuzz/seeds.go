package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var documentSeeds = []string{
	`{"ast":{"type":"Toplevel"}}`,
	`{"error":{"message":"Unexpected token: punc «)»","line":3,"col":7}}`,
	`{"ast":{"type":"Toplevel","body":[{"type":"Import","key":"os.path","start":{"line":1,"col":7}}]}}`,
	`{"ast":{"type":"Toplevel","body":[{"type":"Function","name":"f","start":{"line":1,"col":4},"body":[
		{"type":"FuncArg","name":"a","start":{"line":1,"col":6}},
		{"type":"ForIn","start":{"line":2,"col":4},"init":{"type":"SymbolRef","name":"a","start":{"line":2,"col":8}},
		 "body":[{"type":"SymbolRef","name":"xs","start":{"line":2,"col":13}}]}]}]}}`,
	`{"ast":{"type":"Toplevel","body":[{"type":"If","body":[{"type":"Class","name":"C","start":{"line":2,"col":10}}]}]}}`,
	`{"ast":{"type":"Toplevel","body":[{"type":"Assign","operator":"=","start":{"line":1,"col":7},
		"left":{"type":"Array","body":[{"type":"SymbolRef","name":"a"},{"type":"SymbolRef","name":"b"}]},
		"value":{"type":"Comprehension","init":{"type":"SymbolRef","name":"i"},"body":[{"type":"SymbolRef","name":"i"}]}}]}}`,
	`{"ast":{"type":"Toplevel","body":[{"type":"EmptyStatement","stype":";","start":{"line":1,"col":0}},{"type":"Mystery","body":[{"type":"SymbolRef","name":"q"}]}]}}`,
	`{}`,
	`[1,2`,
}

var sourceSeeds = []string{
	"",
	"x = 1;\n",
	"import os # no-lint:unused-import\n",
	"y = z  #NO-LINT:undef,unused-local\r\n",
	"\ufefffor a in b: pass ;;   \n",
	"#\n# no-lint\n;",
}

func addDocumentSeeds(f *testing.F) {
	for _, s := range documentSeeds {
		f.Add([]byte(s))
	}
	root := filepath.Join("testdata", "trees")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все *.json документы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addSourceSeeds(f *testing.F) {
	for _, s := range sourceSeeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
