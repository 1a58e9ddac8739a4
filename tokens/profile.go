package tokens

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// DefaultEncoding is used for any model name the prefix table does not
// recognize. Counts for such models are cl100k_base approximations.
const DefaultEncoding = tokenizer.Cl100kBase

// modelPrefixes maps model-name prefixes to encodings. Longer prefixes of the
// same family come first so "gpt-4o" wins over "gpt-4".
var modelPrefixes = []struct {
	prefix   string
	encoding tokenizer.Encoding
}{
	{"gpt-4o", tokenizer.O200kBase},
	{"gpt-4.1", tokenizer.O200kBase},
	{"gpt-4.5", tokenizer.O200kBase},
	{"gpt-5", tokenizer.O200kBase},
	{"chatgpt-4o", tokenizer.O200kBase},
	{"o1", tokenizer.O200kBase},
	{"o3", tokenizer.O200kBase},
	{"o4", tokenizer.O200kBase},
	{"gpt-4", tokenizer.Cl100kBase},
	{"gpt-3.5", tokenizer.Cl100kBase},
	{"text-embedding-", tokenizer.Cl100kBase},
	{"text-davinci-", tokenizer.P50kBase},
	{"code-", tokenizer.P50kBase},
	{"davinci", tokenizer.R50kBase},
}

var profiles = map[string]tokenizer.Encoding{
	string(tokenizer.Cl100kBase): tokenizer.Cl100kBase,
	string(tokenizer.O200kBase):  tokenizer.O200kBase,
	string(tokenizer.P50kBase):   tokenizer.P50kBase,
	string(tokenizer.R50kBase):   tokenizer.R50kBase,
}

// AutoProfile derives the encoding from the model name.
const AutoProfile = "auto"

// Resolve selects the encoding for a model. A non-empty profile names the
// encoding explicitly and must be one of the shipped encodings. An empty or
// "auto" profile resolves from the model name; fellBack reports that the name was
// unrecognized and DefaultEncoding was chosen.
func Resolve(model, profile string) (enc tokenizer.Encoding, fellBack bool, err error) {
	if profile = strings.TrimSpace(profile); profile != "" && profile != AutoProfile {
		enc, ok := profiles[profile]
		if !ok {
			return "", false, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
		}
		return enc, false, nil
	}

	name := strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	for _, entry := range modelPrefixes {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.encoding, false, nil
		}
	}
	return DefaultEncoding, true, nil
}

// Profiles lists the encoding names accepted as explicit profiles.
func Profiles() []string {
	return []string{
		string(tokenizer.Cl100kBase),
		string(tokenizer.O200kBase),
		string(tokenizer.P50kBase),
		string(tokenizer.R50kBase),
	}
}
