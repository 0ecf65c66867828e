package ingest

import (
	"io"
	"os"
	"strings"

	"github.com/sjquinney/lcfg-core/format"
)

// OpenSource opens path for an ingestion pass. When opts has AllowNoExist
// and the file does not exist, it returns an empty reader instead of an
// error (§6.7).
func OpenSource(path string, opts format.Options) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && opts.Has(format.AllowNoExist) {
			return io.NopCloser(strings.NewReader("")), nil
		}
		return nil, err
	}
	return f, nil
}
