package git

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// StagedFile represents a file to be staged for testing.
type StagedFile struct {
	Name    string
	Content string
}

// windowsReservedNames contains Windows reserved device names that cannot be used as file names.
var windowsReservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true,
}

// genValidFileName generates lowercase file names that are safe on every platform.
func genValidFileName() gopter.Gen {
	return gen.IntRange(4, 12).FlatMap(func(length interface{}) gopter.Gen {
		return gen.SliceOfN(length.(int), gen.AlphaLowerChar()).Map(func(runes []rune) string {
			name := string(runes)
			if windowsReservedNames[name] {
				name = "file_" + name
			}
			return name + ".txt"
		})
	}, reflect.TypeOf(""))
}

func genStagedFiles() gopter.Gen {
	file := gopter.CombineGens(
		genValidFileName(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	).Map(func(values []interface{}) StagedFile {
		return StagedFile{Name: values[0].(string), Content: values[1].(string)}
	})

	return gen.SliceOfN(3, file).Map(func(files []StagedFile) []StagedFile {
		seen := make(map[string]bool)
		unique := make([]StagedFile, 0, len(files))
		for _, f := range files {
			if !seen[f.Name] {
				seen[f.Name] = true
				unique = append(unique, f)
			}
		}
		return unique
	})
}

// Every staged file shows up in the staged diff with its content as added lines.
func TestStagedDiff_ContainsEveryStagedFile_Property(t *testing.T) {
	setupTestRepo(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("all staged files are in the diff", prop.ForAll(
		func(files []StagedFile) bool {
			dir := setupTestRepo(t)
			for _, f := range files {
				if err := os.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content+"\n"), 0644); err != nil {
					return false
				}
			}
			client := NewClient(dir)
			if err := client.StageAll(context.Background()); err != nil {
				return false
			}

			diff, err := client.StagedDiff(context.Background())
			if err != nil {
				return false
			}
			for _, f := range files {
				if !strings.Contains(diff, "b/"+f.Name) || !strings.Contains(diff, "+"+f.Content) {
					return false
				}
			}
			return true
		},
		genStagedFiles(),
	))

	properties.TestingRun(t)
}
