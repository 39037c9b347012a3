// Package seeder loads the deity catalog from a YAML file into the subjects
// table.
package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// Catalog is the YAML document: subjects grouped by pantheon.
//
//	pantheons:
//	  - name: norse
//	    subjects:
//	      - id: thor
//	        name: Thor
//	        title: God of Thunder
type Catalog struct {
	Pantheons []Pantheon `yaml:"pantheons"`
}

// Pantheon groups the subjects of one mythology.
type Pantheon struct {
	Name     string         `yaml:"name"`
	Subjects []CatalogEntry `yaml:"subjects"`
}

// CatalogEntry is one deity.
type CatalogEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Image string `yaml:"image"`
}

// LoadCatalog reads and parses the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes a catalog. Unknown keys are rejected so typos do not
// silently drop data.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// Subjects flattens and validates the catalog. Ids are normalized; every
// problem is reported, not only the first.
func (c *Catalog) Subjects(now time.Time) ([]domain.Subject, error) {
	var (
		out  []domain.Subject
		errs []domain.FieldError
		seen = make(map[string]string)
	)

	for i, p := range c.Pantheons {
		pantheon := strings.ToLower(strings.TrimSpace(p.Name))
		if pantheon == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("pantheons[%d].name", i), Message: "required"})
		}

		for j, e := range p.Subjects {
			field := fmt.Sprintf("pantheons[%d].subjects[%d]", i, j)

			id := domain.NormalizeSubjectID(e.ID)
			if err := domain.ValidateSubjectID(id); err != nil {
				var ve *domain.ValidationError
				if errors.As(err, &ve) {
					errs = append(errs, domain.FieldError{Field: field + ".id", Message: ve.Errors[0].Message})
				}
				continue
			}
			if prev, dup := seen[id]; dup {
				errs = append(errs, domain.FieldError{Field: field + ".id", Message: "duplicate of " + prev})
				continue
			}
			seen[id] = field

			name := strings.TrimSpace(e.Name)
			if name == "" {
				errs = append(errs, domain.FieldError{Field: field + ".name", Message: "required"})
				continue
			}

			out = append(out, domain.Subject{
				ID:        id,
				Name:      name,
				Pantheon:  pantheon,
				Title:     optional(e.Title),
				ImageURL:  optional(e.Image),
				CreatedAt: now,
			})
		}
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
