package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

const (
	// Form field names expected by the workflow server's AJAX receiver.
	FieldUID  = "uid"
	FieldFile = "myfile"

	maxResponseBody = 64 * 1024
)

// FormField is a plain form value sent before the file part.
type FormField struct {
	Name  string
	Value string
}

// TransferRequest is everything a transport needs to send one file.
type TransferRequest struct {
	Endpoint  string
	Fields    []FormField
	FileField string
	File      types.FileDescriptor
}

// Transport performs the network transfer of one file. Send blocks until the
// server answered, the connection failed or ctx was cancelled; progress may be
// called from the sending goroutine any number of times before Send returns.
type Transport interface {
	Send(ctx context.Context, req TransferRequest, progress ProgressFunc) error
}

// HTTPTransport posts the file as a single multipart/form-data request.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = tool.GetHttpClient()
	}
	return &HTTPTransport{client: client}
}

// Send uploads req.File with context support for cancellation.
func (t *HTTPTransport) Send(ctx context.Context, req TransferRequest, progress ProgressFunc) error {
	if req.Endpoint == "" {
		return ErrNoEndpoint
	}
	if req.File.Open == nil {
		return fmt.Errorf("invalid parameters: file %s has no content", req.File.Name)
	}

	// Check if already cancelled
	select {
	case <-ctx.Done():
		return fmt.Errorf("upload cancelled: %w", ctx.Err())
	default:
	}

	content, err := req.File.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", req.File.Name, err)
	}
	defer func() {
		if err := content.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close %s: %v", req.File.Name, err)
		}
	}()

	body, contentType, length, err := newMultipartBody(req, content)
	if err != nil {
		return fmt.Errorf("failed to build upload body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, NewProgressReader(body, length, progress))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.ContentLength = length
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		// Check if it was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("upload cancelled: %w", ctx.Err())
		}
		return &NetworkError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if readErr != nil {
		tool.DefaultLogger.Warnf("Failed to read upload response body: %v", readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	tool.DefaultLogger.Debugf("Upload of %s to %s finished: %s", req.File.Name, req.Endpoint, resp.Status)
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// newMultipartBody lays out the form fields, the file part header, the file
// content and the closing boundary so the full length is known up front.
func newMultipartBody(req TransferRequest, content io.Reader) (io.Reader, string, int64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, field := range req.Fields {
		if err := mw.WriteField(field.Name, field.Value); err != nil {
			return nil, "", 0, err
		}
	}

	fileField := req.FileField
	if fileField == "" {
		fileField = FieldFile
	}
	partType := req.File.MimeType
	if partType == "" {
		partType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(req.File.Name)))
	header.Set("Content-Type", partType)
	if _, err := mw.CreatePart(header); err != nil {
		return nil, "", 0, err
	}
	prefix := bytes.Clone(buf.Bytes())

	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, "", 0, err
	}
	suffix := bytes.Clone(buf.Bytes())

	length := int64(len(prefix)) + req.File.Size + int64(len(suffix))
	body := io.MultiReader(
		bytes.NewReader(prefix),
		io.LimitReader(content, req.File.Size),
		bytes.NewReader(suffix),
	)
	return body, mw.FormDataContentType(), length, nil
}
