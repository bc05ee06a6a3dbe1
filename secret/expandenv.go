package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// envToken matches the escape "$$" or a braced reference ${NAME}.
var envToken = regexp.MustCompile(`\$\$|\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict replaces ${VAR} with the value of VAR. "$$" yields a
// literal "$"; $VAR and a lone "$" pass through untouched. All unset
// variables are reported together, sorted.
func ExpandEnvStrict(s string) (string, error) {
	var missing []string
	out := envToken.ReplaceAllStringFunc(s, func(tok string) string {
		if tok == "$$" {
			return "$"
		}
		name := tok[2 : len(tok)-1]
		v, ok := os.LookupEnv(name)
		if !ok && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return out, nil
}
