package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chess_analyse/internal/domain/analysis"
	analysisUC "chess_analyse/internal/usecase/analysis"
)

// loadTree reads a game file; the extension picks the format.
func loadTree(path string) (*analysis.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var data analysis.TreeData
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pgn":
		data, err = analysisUC.ImportPGN(f)
	case ".json":
		err = json.NewDecoder(f).Decode(&data)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .pgn, .json, .yaml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return analysis.NewTree(data)
}
