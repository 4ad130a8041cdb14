package intelligence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pocketclass/models"
	"pocketclass/utils"

	"go.uber.org/zap"
)

// MaxReviewLength caps the text sent to the model.
const MaxReviewLength = 4000

var ErrEmptyReview = errors.New("review text is empty")

// ReviewAnalyzer scores the quality of a class review.
type ReviewAnalyzer interface {
	AnalyzeReview(ctx context.Context, text string) (*models.ReviewAnalysis, error)
}

type DefaultReviewAnalyzer struct {
	gen   Generator
	cache AnalysisCache
}

func NewReviewAnalyzer(gen Generator, cache AnalysisCache) *DefaultReviewAnalyzer {
	return &DefaultReviewAnalyzer{gen: gen, cache: cache}
}

const reviewPrompt = `You review student feedback for a class booking marketplace.
Rate how useful the review below is to other students on a 0-10 scale.
Flag any of: "spam", "offensive", "off_topic", "personal_info", "too_short".
Answer with JSON only: {"score": <int>, "flags": [<string>], "summary": "<one sentence>"}

Review:
%s`

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (a *DefaultReviewAnalyzer) AnalyzeReview(ctx context.Context, text string) (*models.ReviewAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReview
	}
	if len(text) > MaxReviewLength {
		text = text[:MaxReviewLength]
	}
	key := digest(text)

	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key); err != nil {
			utils.GetLogger().Warn("Review analysis cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	raw, err := a.gen.GenerateContent(ctx, fmt.Sprintf(reviewPrompt, text))
	if err != nil {
		return nil, err
	}
	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, analysis); err != nil {
			utils.GetLogger().Warn("Review analysis cache write failed", zap.Error(err))
		}
	}
	return analysis, nil
}

// parseAnalysis reads the model's JSON answer, tolerating a fenced code block,
// and clamps the score to 0..10.
func parseAnalysis(raw string) (*models.ReviewAnalysis, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var out models.ReviewAnalysis
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("unreadable model answer: %w", err)
	}
	out.Score = min(10, max(0, out.Score))
	return &out, nil
}
