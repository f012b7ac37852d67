package models

import "errors"

// Configuration errors. These are fatal: an unrecognized type tag means
// the experiment configuration itself is wrong, and the run aborts with
// a message naming the offending value.
var (
	ErrUnknownModelType       = errors.New("unknown model type")
	ErrUnknownAutoencoderType = errors.New("unknown autoencoder type")
	ErrUnknownStudentVersion  = errors.New("unknown student version")
)
