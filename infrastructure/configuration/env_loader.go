package configuration

import (
	"os"
	"strings"
)

// LoadEnvFromFile exports KEY=VALUE pairs from each file that exists into the
// process environment. Variables already set in the environment win, so files
// act as defaults only. Blank lines and # comments are skipped; surrounding
// single or double quotes on values are stripped.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(raw), "\n") {
			key, val, ok := splitEnvLine(line)
			if !ok {
				continue
			}
			if _, set := os.LookupEnv(key); set {
				continue
			}
			_ = os.Setenv(key, val)
		}
	}
}

func splitEnvLine(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	return key, val, true
}
