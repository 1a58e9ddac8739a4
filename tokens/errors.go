package tokens

import "errors"

// ErrUnknownProfile is returned when an explicit tokenizer profile names an
// encoding the accountant does not ship.
var ErrUnknownProfile = errors.New("unknown tokenizer profile")
