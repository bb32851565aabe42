// Package params normalizes caller-supplied sampling parameters into the
// option set an Ollama-compatible backend expects.
//
// Normalization is a pure function: unset fields get defaults, out-of-range
// values are rejected with an error naming the offending field, and explicit
// values are never clamped. Re-normalizing an already-normalized set is a
// no-op.
package params

import "fmt"

const (
	defaultTemperature      = 0.7
	defaultMaxTokens        = 2048
	defaultMaxTokensCeiling = 8192
	defaultTopP             = 0.95
	defaultPresencePenalty  = 0.0
	defaultFrequencyPenalty = 0.0
)

// Params is the raw, caller-facing parameter set. Nil fields are unset and
// receive defaults during normalization.
type Params struct {
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	PresencePenalty  *float64
	FrequencyPenalty *float64
}

// Defaults holds the values applied to unset fields plus the max_tokens
// ceiling. Construct with NewDefaults and override from configuration.
type Defaults struct {
	Temperature      float64
	MaxTokens        int
	MaxTokensCeiling int
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// NewDefaults returns the stock defaults.
func NewDefaults() Defaults {
	return Defaults{
		Temperature:      defaultTemperature,
		MaxTokens:        defaultMaxTokens,
		MaxTokensCeiling: defaultMaxTokensCeiling,
		TopP:             defaultTopP,
		PresencePenalty:  defaultPresencePenalty,
		FrequencyPenalty: defaultFrequencyPenalty,
	}
}

// Options is the normalized, backend-ready parameter set. It marshals
// directly into the "options" object of an Ollama /api/generate request.
// Note max_tokens maps to Ollama's num_predict.
type Options struct {
	Temperature      float64 `json:"temperature"`
	NumPredict       int     `json:"num_predict"`
	TopP             float64 `json:"top_p"`
	PresencePenalty  float64 `json:"presence_penalty"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

// Params returns the fully-set raw form of o, such that normalizing it again
// yields o unchanged.
func (o Options) Params() Params {
	maxTokens := o.NumPredict
	return Params{
		Temperature:      &o.Temperature,
		MaxTokens:        &maxTokens,
		TopP:             &o.TopP,
		PresencePenalty:  &o.PresencePenalty,
		FrequencyPenalty: &o.FrequencyPenalty,
	}
}

// ValidationError reports a parameter outside its documented range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Normalize validates p against its documented bounds and fills unset fields
// from d. It never clamps: an explicit out-of-range value is an error so
// callers who set values get predictable behavior.
func Normalize(p Params, d Defaults) (Options, error) {
	opts := Options{
		Temperature:      d.Temperature,
		NumPredict:       d.MaxTokens,
		TopP:             d.TopP,
		PresencePenalty:  d.PresencePenalty,
		FrequencyPenalty: d.FrequencyPenalty,
	}

	if p.Temperature != nil {
		if *p.Temperature < 0 || *p.Temperature > 2 {
			return Options{}, &ValidationError{
				Field:  "temperature",
				Reason: fmt.Sprintf("%g is outside [0, 2]", *p.Temperature),
			}
		}
		opts.Temperature = *p.Temperature
	}

	if p.MaxTokens != nil {
		if *p.MaxTokens <= 0 {
			return Options{}, &ValidationError{
				Field:  "max_tokens",
				Reason: fmt.Sprintf("%d is not positive", *p.MaxTokens),
			}
		}
		if *p.MaxTokens > d.MaxTokensCeiling {
			return Options{}, &ValidationError{
				Field:  "max_tokens",
				Reason: fmt.Sprintf("%d exceeds ceiling %d", *p.MaxTokens, d.MaxTokensCeiling),
			}
		}
		opts.NumPredict = *p.MaxTokens
	}

	if p.TopP != nil {
		if *p.TopP < 0 || *p.TopP > 1 {
			return Options{}, &ValidationError{
				Field:  "top_p",
				Reason: fmt.Sprintf("%g is outside [0, 1]", *p.TopP),
			}
		}
		opts.TopP = *p.TopP
	}

	if p.PresencePenalty != nil {
		if *p.PresencePenalty < -2 || *p.PresencePenalty > 2 {
			return Options{}, &ValidationError{
				Field:  "presence_penalty",
				Reason: fmt.Sprintf("%g is outside [-2, 2]", *p.PresencePenalty),
			}
		}
		opts.PresencePenalty = *p.PresencePenalty
	}

	if p.FrequencyPenalty != nil {
		if *p.FrequencyPenalty < -2 || *p.FrequencyPenalty > 2 {
			return Options{}, &ValidationError{
				Field:  "frequency_penalty",
				Reason: fmt.Sprintf("%g is outside [-2, 2]", *p.FrequencyPenalty),
			}
		}
		opts.FrequencyPenalty = *p.FrequencyPenalty
	}

	return opts, nil
}
