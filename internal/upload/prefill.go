package upload

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/llehouerou/tunecrate/internal/tags"
)

// Prefill fills empty metadata fields from the selected file. Fields that
// already hold a value are kept. Tag and duration failures are returned
// joined; whatever could be read is still applied.
func (p *Pending) Prefill() error {
	if p.File == nil {
		return nil
	}

	var errs []error

	t, err := tags.Read(p.File.Path)
	if err != nil {
		errs = append(errs, fmt.Errorf("read tags: %w", err))
	} else {
		fillEmpty(&p.Title, t.Title)
		fillEmpty(&p.Artist, t.Artist)
		fillEmpty(&p.Album, t.Album)
		fillEmpty(&p.Genre, t.Genre)
		if y := t.Year(); y > 0 {
			fillEmpty(&p.Year, strconv.Itoa(y))
		}
	}

	if p.Duration == "" {
		d, err := tags.ReadDuration(p.File.Path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("read duration: %w", err))
		case d > 0:
			p.Duration = tags.FormatDuration(d)
		}
	}

	return errors.Join(errs...)
}

func fillEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
