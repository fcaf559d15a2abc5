// Go to a pdb website and download coordinates in the old pdb format.
// The main point is to visit the web page and return a reader that
// can be used like the file readers.

package pdb

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andrew-torda/molsys/pdb/zwrap"
)

var ErrAcqCode = errors.New("acq code should be four characters")

type mirror struct {
	url     func(code string) string
	gzipped bool
}

// mirrors are the three sites for structures.
var mirrors = []mirror{
	{func(c string) string { return "https://files.rcsb.org/download/" + c + ".pdb.gz" }, true},
	{func(c string) string { return "https://www.ebi.ac.uk/pdbe/entry-files/download/pdb" + c + ".ent" }, false},
	{func(c string) string {
		return "https://ftp.pdbj.org/pub/pdb/data/structures/divided/pdb/" + c[1:3] + "/pdb" + c + ".ent.gz"
	}, true},
}

var httpClient = &http.Client{Timeout: 2 * time.Minute}

// getHTTP is given a four letter pdb code. It goes to the protein data
// bank and should return a reader.
// There are three sites for structures. You can pick which one you want with
// siteNum. If you give a value that it too big, we use a modulo to wrap
// it around, rather than generate an error. This makes it easier to cycle
// through them or pick one at random.
// Sites return normal or gzipped data, but if it is a gzipping site, we
// call zwrap to decompress and return that as the reader.
func getHTTP(acqCode string, siteNum int) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, fmt.Errorf("%w, not %q", ErrAcqCode, acqCode)
	}
	if siteNum < 0 {
		siteNum = -siteNum
	}
	site := mirrors[siteNum%len(mirrors)]
	url := site.url(strings.ToLower(acqCode))

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", acqCode, url, resp.Status)
	}
	if site.gzipped {
		z, err := zwrap.Wrap(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		return z, nil
	}
	return resp.Body, nil
}
