package multipart

import (
	"errors"
	"fmt"
	"io"
	mimemultipart "mime/multipart"
	"sort"
	"strings"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/negotiation"
)

var (
	// ErrNotMultipart is returned for a body that is not multipart.
	ErrNotMultipart = errors.New("request body is not multipart")

	// ErrNoBoundary is returned when the multipart Content-Type declares no
	// boundary.
	ErrNoBoundary = errors.New("multipart content type has no boundary")
)

// Parse reads the multipart body of req. It consumes the body.
func Parse(req *api.Request) ([]BodyPart, error) {
	ct, ok := negotiation.ParseContentType(req.Header("Content-Type"))
	if !ok || !strings.HasPrefix(ct.MediaType, "multipart/") {
		return nil, ErrNotMultipart
	}
	boundary := ct.Params["boundary"]
	if boundary == "" {
		return nil, ErrNoBoundary
	}

	reader := mimemultipart.NewReader(req.Body(), boundary)
	var parts []BodyPart
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart body: %w", err)
		}
		part, err := readPart(p)
		p.Close()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
}

func readPart(p *mimemultipart.Part) (BodyPart, error) {
	content, err := io.ReadAll(p)
	if err != nil {
		return BodyPart{}, fmt.Errorf("reading part %q: %w", p.FormName(), err)
	}

	headers := &api.Headers{}
	names := make([]string, 0, len(p.Header))
	for name := range p.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		headers.Put(name, p.Header[name]...)
	}

	return BodyPart{
		Name:        p.FormName(),
		Filename:    p.FileName(),
		ContentType: headers.Get("Content-Type"),
		Headers:     headers,
		Content:     content,
	}, nil
}

// Form parses the multipart body of req and adds every text part as a
// request parameter. It returns all the parts, file uploads included.
func Form(req *api.Request) ([]BodyPart, error) {
	parts, err := Parse(req)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		if part.IsFile() || part.Name == "" {
			continue
		}
		value, err := part.Value()
		if err != nil {
			return nil, fmt.Errorf("decoding part %q: %w", part.Name, err)
		}
		req.AddParameter(part.Name, value)
	}
	return parts, nil
}
