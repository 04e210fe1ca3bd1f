package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

var declarationSeeds = []string{
	"",
	"namespace Tests;\n\n[Union]\npublic partial record Result<T, TE>\n{\n    partial record Ok(T Value);\n    partial record Err(TE Error);\n}\n",
	"namespace Tests\n{\n    public partial class Hello<TKey> where TKey : class\n    {\n        [Union(GenerateAsyncExtensions = true)]\n        public partial record Option<T>\n        {\n            partial record Some(T Value);\n            partial record None;\n        }\n    }\n}\n",
	"[Union]\npublic sealed record Shape : Base\n{\n    private Shape() {}\n    public partial record Circle(double R) : Shape;\n    record Square<T>(T Side);\n}\n",
	"using System;\nusing global::System.Collections.Generic;\n[dotUnion.Attributes.UnionAttribute]\nrecord struct S(int X);\n",
	"public partial record R { void M() { if (x) { y(); } } int P => 1; }",
	"[Union(\npublic partial record",
	"namespace A.B { namespace C { [Union] public partial record U { partial record V((int, string) Pair, List<Dictionary<string, int[]>> Xs); } } }",
	"// <auto-generated/>\npartial record U { partial record A; }",
	"@\"verbatim\" $\"{interp}\" 'c' \"str\\\"\" /* unterminated",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range declarationSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.cs file under the repository testdata tree.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".cs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
