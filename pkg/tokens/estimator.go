// Package tokens estimates token counts for workspace files and
// caches the results between runs.
package tokens

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// Estimator selects the strategy used to turn file content into a
// token count.
type Estimator string

const (
	// CharDiv4 approximates tokens as character count divided by four.
	CharDiv4 Estimator = "CharDiv4"
	// Cl100k uses the cl100k_base byte-pair encoding.
	Cl100k Estimator = "Cl100k"
)

// DefaultEstimator is used when settings carry no estimator choice.
const DefaultEstimator = CharDiv4

// AllEstimators lists the selectable estimators in display order.
func AllEstimators() []Estimator {
	return []Estimator{CharDiv4, Cl100k}
}

// IsValid returns true if the estimator is a known strategy.
func (e Estimator) IsValid() bool {
	return e == CharDiv4 || e == Cl100k
}

// Label returns the human-readable name shown in pickers.
func (e Estimator) Label() string {
	switch e {
	case Cl100k:
		return "GPT-3/4 (cl100k)"
	default:
		return "Char/4 heuristic"
	}
}

// ParseEstimator converts a stored settings value back to an
// Estimator.
func ParseEstimator(s string) (Estimator, error) {
	e := Estimator(s)
	if !e.IsValid() {
		return "", fmt.Errorf("unknown token estimator: %q", s)
	}
	return e, nil
}

var (
	cl100kOnce sync.Once
	cl100kEnc  *tiktoken.Tiktoken
	cl100kErr  error
)

func cl100kEncoding() (*tiktoken.Tiktoken, error) {
	cl100kOnce.Do(func() {
		cl100kEnc, cl100kErr = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	})
	return cl100kEnc, cl100kErr
}

// EstimateText returns the token count for text. If the cl100k
// encoding cannot be loaded the char/4 heuristic is used instead so
// counting never blocks opening a workspace.
func (e Estimator) EstimateText(text string) int {
	if e == Cl100k {
		enc, err := cl100kEncoding()
		if err != nil {
			log.Printf("warning: cl100k encoding unavailable, falling back to char/4: %v", err)
		} else {
			return len(enc.Encode(text, nil, nil))
		}
	}
	return len([]rune(text)) / 4
}

// EstimateFile reads path and counts its tokens.
func (e Estimator) EstimateFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return e.EstimateText(string(content)), nil
}

// countWorkers bounds concurrent file reads during a bulk count.
const countWorkers = 8

// CountAll fills in Tokens for the given records, consulting the
// cache first and storing fresh counts back. A nil cache disables
// caching. Records whose files cannot be read keep a zero count.
func CountAll(ctx context.Context, est Estimator, recs []*model.FileRecord, cache *Cache) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(countWorkers)

	for _, rec := range recs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			info, err := os.Stat(rec.Path)
			if err != nil {
				log.Printf("warning: stat %s: %v", rec.Path, err)
				return nil
			}
			mtime := info.ModTime().UnixNano()

			if cache != nil {
				if tokens, ok, err := cache.Lookup(est, rec.Path, info.Size(), mtime); err == nil && ok {
					rec.Tokens = tokens
					return nil
				}
			}

			tokens, err := est.EstimateFile(rec.Path)
			if err != nil {
				log.Printf("warning: counting %s: %v", rec.Path, err)
				return nil
			}
			rec.Tokens = tokens

			if cache != nil {
				if err := cache.Store(est, rec.Path, info.Size(), mtime, tokens); err != nil {
					log.Printf("warning: token cache store %s: %v", rec.Path, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
