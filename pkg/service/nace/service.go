package nace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

const (
	codeDigits     = 6
	maxSuggestions = 3

	// prefixWeight discounts the edit distance by half a point per matching
	// leading digit, so lookups that diverge late rank above lookups that
	// diverge early.
	prefixWeight = 0.5
)

var codePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}$`)

type entry struct {
	classification model.NaceClassification
	digits         string
}

// Service resolves 6-digit activity codes against the NACE reference table.
// The table is loaded once at startup and immutable afterwards; a reload
// requires a process restart. Resolve is safe for concurrent use.
type Service struct {
	entries []entry
	byCode  map[string]model.NaceClassification
}

// Load reads the reference table from a CSV file (columns: code, activity
// label, danger class). Rows whose code does not match the strict dd.dd.dd
// pattern are skipped.
func Load(path string) (*Service, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from CLI configuration
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open NACE table", goerr.V("path", path))
	}
	defer f.Close()

	svc, err := Parse(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse NACE table", goerr.V("path", path))
	}
	return svc, nil
}

// Parse reads the reference table from CSV data.
func Parse(r io.Reader) (*Service, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	svc := &Service{
		byCode: make(map[string]model.NaceClassification),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV record")
		}
		if len(record) < 2 {
			continue
		}

		code := strings.TrimSpace(record[0])
		if !codePattern.MatchString(code) {
			continue
		}

		cls := model.NaceClassification{
			Code:     code,
			Activity: strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			cls.DangerClass = types.DangerClass(strings.TrimSpace(record[2]))
		}

		svc.entries = append(svc.entries, entry{
			classification: cls,
			digits:         strings.ReplaceAll(code, ".", ""),
		})
		svc.byCode[code] = cls
	}

	return svc, nil
}

// New builds a Service from an in-memory table. Rows with malformed codes
// are skipped, matching the CSV loader.
func New(rows []model.NaceClassification) *Service {
	svc := &Service{
		byCode: make(map[string]model.NaceClassification, len(rows)),
	}
	for _, cls := range rows {
		if !codePattern.MatchString(cls.Code) {
			continue
		}
		svc.entries = append(svc.entries, entry{
			classification: cls,
			digits:         strings.ReplaceAll(cls.Code, ".", ""),
		})
		svc.byCode[cls.Code] = cls
	}
	return svc
}

// Len returns the number of loaded table rows
func (s *Service) Len() int {
	return len(s.entries)
}

// Resolve normalizes the code (non-digits stripped, exactly 6 digits
// required) and looks it up in the reference table. On an exact match the
// classification is returned with no suggestions. Otherwise every table row
// is scored by editDistance - 0.5*commonPrefixLength and the top 3 rows are
// returned as suggestions alongside ErrCodeNotFound.
func (s *Service) Resolve(code string) (*model.NaceClassification, []model.NaceSuggestion, error) {
	formatted, err := FormatCode(code)
	if err != nil {
		return nil, nil, err
	}

	if cls, ok := s.byCode[formatted]; ok {
		return &cls, nil, nil
	}

	suggestions := s.suggest(stripNonDigits(formatted))
	return nil, suggestions, goerr.Wrap(ErrCodeNotFound, "no exact classification match",
		goerr.V("code", formatted))
}

// FormatCode normalizes a raw code into the canonical dd.dd.dd form.
// Non-digits are stripped; anything other than exactly 6 remaining digits is
// ErrInvalidCode.
func FormatCode(code string) (string, error) {
	digits := stripNonDigits(code)
	if len(digits) != codeDigits {
		return "", goerr.Wrap(ErrInvalidCode, "code must contain exactly 6 digits",
			goerr.V("code", code), goerr.V("digits", digits))
	}
	return fmt.Sprintf("%s.%s.%s", digits[0:2], digits[2:4], digits[4:6]), nil
}

func (s *Service) suggest(digits string) []model.NaceSuggestion {
	type scored struct {
		suggestion model.NaceSuggestion
		score      float64
	}

	candidates := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		dist := levenshtein.ComputeDistance(digits, e.digits)
		prefix := commonPrefixLength(digits, e.digits)
		candidates = append(candidates, scored{
			suggestion: model.NaceSuggestion{
				Code:         e.classification.Code,
				Activity:     e.classification.Activity,
				DangerClass:  e.classification.DangerClass,
				Distance:     dist,
				PrefixLength: prefix,
			},
			score: float64(dist) - prefixWeight*float64(prefix),
		})
	}

	// Ascending by score, ties broken by descending prefix length; stable
	// so equal candidates keep table order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].suggestion.PrefixLength > candidates[j].suggestion.PrefixLength
	})

	n := maxSuggestions
	if len(candidates) < n {
		n = len(candidates)
	}
	suggestions := make([]model.NaceSuggestion, n)
	for i := 0; i < n; i++ {
		suggestions[i] = candidates[i].suggestion
	}
	return suggestions
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// commonPrefixLength scans from the first digit until the first mismatch,
// capped at the code length.
func commonPrefixLength(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && n < codeDigits && a[n] == b[n] {
		n++
	}
	return n
}
