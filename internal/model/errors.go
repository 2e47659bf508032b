package model

import "errors"

// ErrUnknownLanguage is returned by ParseLanguage for an unsupported language selector.
var ErrUnknownLanguage = errors.New("unknown language: must be UK or US")
