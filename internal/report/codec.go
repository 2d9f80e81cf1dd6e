// Package report turns a project into a self-contained HTML report and reads
// reports and studio backups back.
//
// A report carries its project twice: as readable HTML and as an exact JSON
// copy in a script element with id awaree-project-data. Import only trusts
// the JSON copy.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/tidwall/gjson"
)

// DataElementID is the id of the script element holding the project JSON
const DataElementID = "awaree-project-data"

var (
	// ErrInvalidReport means the HTML has no project data element
	ErrInvalidReport = errors.New("not an Awaree report: project data not found")
	// ErrCorruptPayload means the data is present but not a valid project or backup
	ErrCorruptPayload = errors.New("corrupt or unknown data")
	// ErrSealed means the backup is sealed and no passphrase was given
	ErrSealed = errors.New("backup is sealed: passphrase required")
)

// Kind is the format of an imported file
type Kind int

const (
	KindHTML Kind = iota
	KindJSON
)

func (k Kind) String() string {
	if k == KindHTML {
		return "html"
	}
	return "json"
}

// KindFromName picks the format from a file name
func KindFromName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return KindHTML
	default:
		return KindJSON
	}
}

// DecodeError reports why an import failed. Err wraps one of the package
// sentinels.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Backup is a full or partial copy of the studio
type Backup = studio.Backup

// Payload is the result of a decode: exactly one field is set
type Payload struct {
	Project *model.Project
	Backup  *Backup
}

type reportView struct {
	Project     model.Project
	Data        template.JS
	GeneratedAt string
}

// Encode renders p as an HTML report. The embedded JSON is the exact
// encoding of p; encoding/json escapes <, > and & so the data cannot close
// the script element.
func Encode(p model.Project, generatedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	var buf bytes.Buffer
	err = reportTemplate.Execute(&buf, reportView{
		Project:     p,
		Data:        template.JS(data),
		GeneratedAt: generatedAt.Format(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

const dateLayout = "02/01/2006"

func formatDate(ms int64) string {
	return model.Time(ms).Format(dateLayout)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the report file name for p
func FileName(p model.Project) string {
	return "awaree_rapport_" + whitespace.ReplaceAllString(strings.ToLower(p.Name), "_") + ".html"
}

// Decode reads a report or a JSON export. Sealed backups need DecodeSealed.
func Decode(content []byte, kind Kind) (*Payload, error) {
	return DecodeSealed(content, kind, "")
}

// DecodeSealed is Decode with a passphrase for sealed backups
func DecodeSealed(content []byte, kind Kind, passphrase string) (*Payload, error) {
	var (
		payload *Payload
		err     error
	)
	switch kind {
	case KindHTML:
		payload, err = decodeHTML(content)
	default:
		payload, err = decodeJSON(content, passphrase)
	}
	if err != nil {
		return nil, &DecodeError{Kind: kind, Err: err}
	}
	return payload, nil
}

func decodeHTML(content []byte) (*Payload, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	sel := doc.Find("#" + DataElementID)
	if sel.Length() == 0 {
		return nil, ErrInvalidReport
	}

	p, err := decodeProject([]byte(sel.First().Text()))
	if err != nil {
		return nil, err
	}
	return &Payload{Project: p}, nil
}

func decodeProject(data []byte) (*model.Project, error) {
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return &p, nil
}

// backupKeys are the top-level keys that mark a JSON document as a backup
var backupKeys = []string{"projects", "events", "creations", "tagColors"}

func decodeJSON(content []byte, passphrase string) (*Payload, error) {
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorruptPayload)
	}
	doc := gjson.ParseBytes(content)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrCorruptPayload)
	}

	if IsSealed(content) {
		if passphrase == "" {
			return nil, ErrSealed
		}
		plain, err := Open(content, passphrase)
		if err != nil {
			return nil, err
		}
		return decodeJSON(plain, "")
	}

	for _, key := range backupKeys {
		if doc.Get(key).Exists() {
			b, err := decodeBackup(content)
			if err != nil {
				return nil, err
			}
			return &Payload{Backup: b}, nil
		}
	}

	p, err := decodeProject(content)
	if err != nil {
		return nil, err
	}
	return &Payload{Project: p}, nil
}
