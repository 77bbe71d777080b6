// Package targets loads the ordered list of hosts to probe.
package targets

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"rtt-prober/internal/models"
)

// DefaultPath is the target list read when none is configured
const DefaultPath = "targets.conf"

// Load reads the target list at path. The file order is preserved.
func Load(fs afero.Fs, path string) ([]models.Target, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open target list")
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read target list %s", path)
	}
	return list, nil
}

// Parse returns one target per non-empty line. Lines starting with '#' are
// comments.
func Parse(r io.Reader) ([]models.Target, error) {
	var list []models.Target

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, models.Target(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
