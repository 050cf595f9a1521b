package cases

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dalemusser/regcheck/account"
	"gopkg.in/yaml.v3"
)

// yamlCase is the on-disk shape of one YAML case. Unlike CSV, YAML keeps
// absent (null or missing) and empty ("") apart.
type yamlCase struct {
	Name     string  `yaml:"name"`
	Username *string `yaml:"username"`
	Password *string `yaml:"password"`
	Email    *string `yaml:"email"`
	Expected *bool   `yaml:"expected"`
}

// LoadYAMLFile reads cases from a YAML file holding a list of cases.
func LoadYAMLFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cases: open %s: %w", path, err)
	}
	defer f.Close()

	return ReadYAML(f, filepath.Base(path))
}

// ReadYAML reads cases from YAML data.
func ReadYAML(r io.Reader, name string) ([]Case, error) {
	var raw []yamlCase
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("cases: decode %s: %w", name, err)
	}

	out := make([]Case, 0, len(raw))
	for i, yc := range raw {
		source := fmt.Sprintf("%s[%d]", name, i)
		if yc.Expected == nil {
			return nil, &ParseError{Source: source, Err: errors.New("expected is required")}
		}
		reg := account.Registration{
			Username: yc.Username,
			Password: yc.Password,
			Email:    yc.Email,
		}
		n := yc.Name
		if n == "" {
			n = caseName(reg)
		}
		out = append(out, Case{
			Name:         n,
			Registration: reg,
			Expected:     *yc.Expected,
			Source:       source,
		})
	}
	return out, nil
}
