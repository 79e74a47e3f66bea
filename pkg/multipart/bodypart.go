// Package multipart decodes multipart/form-data request bodies into body
// parts.
package multipart

import (
	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/negotiation"
)

// BodyPart is one part of a multipart body.
type BodyPart struct {
	Name        string // form field name
	Filename    string // set for file uploads
	ContentType string // raw Content-Type header of the part, "" when absent
	Headers     *api.Headers
	Content     []byte
}

// IsFile reports whether the part is a file upload.
func (p BodyPart) IsFile() bool {
	return p.Filename != ""
}

// Value decodes the content with the charset of the part's Content-Type.
// Parts without a declared charset are read as UTF-8.
func (p BodyPart) Value() (string, error) {
	return negotiation.Decode(p.Content, negotiation.CharsetOf(p.ContentType, negotiation.UTF8))
}
