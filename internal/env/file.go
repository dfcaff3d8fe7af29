package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/compose-spec/compose-go/v2/dotenv"
	"github.com/joho/godotenv"
)

// LoadFile reads a dotenv file. With expand set, ${VAR} references are
// resolved against earlier entries of the same file. Without it, references
// are kept exactly as written so they can be handed to docker compose
// untouched.
func LoadFile(path string, expand bool) (map[string]string, error) {
	if expand {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", path, err)
		}
		return vars, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	// hide every $ from the parser so references reach compose as written,
	// including ${VAR:-default} and ${VAR:?error}
	src := strings.ReplaceAll(string(data), "$", dollar)
	vars, err := dotenv.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}
	for k, v := range vars {
		vars[k] = strings.ReplaceAll(v, dollar, "$")
	}
	return vars, nil
}

// dollar stands in for $ while parsing raw files.
const dollar = "\uE000"
