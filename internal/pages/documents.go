package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/view"
)

// Upload is one file picked in the upload dialog.
type Upload struct {
	Name string
	Data []byte
}

// DocumentsView is the document manager page.
type DocumentsView struct {
	Search    string           `json:"search"`
	Tab       string           `json:"tab"`
	Documents []model.Document `json:"documents"`
	Counts    map[string]int   `json:"counts"`
}

// DocumentsPage keeps uploaded and seeded documents.
type DocumentsPage struct {
	base

	mu     sync.Mutex
	search string
	tab    string
	docs   []model.Document
}

func NewDocumentsPage(d Deps) *DocumentsPage {
	d = d.withDefaults()
	return &DocumentsPage{
		base: newBase(d, "documents"),
		tab:  view.TabAll,
		docs: seed.Documents(),
	}
}

// SetSearch filters documents by name.
func (p *DocumentsPage) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

// SetTab scopes the list to one document type.
func (p *DocumentsPage) SetTab(tab string) {
	if tab == "" {
		tab = view.TabAll
	}
	p.mu.Lock()
	p.tab = tab
	p.mu.Unlock()
}

// Upload adds files in front of the list.
func (p *DocumentsPage) Upload(files []Upload) ([]model.Document, error) {
	if len(files) == 0 {
		return nil, errors.Validation("no files selected")
	}
	now := p.clock.Now()
	added := make([]model.Document, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f.Name)
		if name == "" || name == "." || name == string(filepath.Separator) {
			return nil, errors.Validation("file name is required")
		}
		data := f.Data
		if data == nil {
			data = []byte{}
		}
		added = append(added, model.Document{
			ID:           uuid.NewString(),
			Name:         name,
			Type:         model.DocOther,
			Size:         fmt.Sprintf("%.2f MB", float64(len(data))/1024/1024),
			UploadDate:   now,
			LastModified: now,
			Status:       model.DocActive,
			File:         slices.Clone(data),
		})
	}

	p.mu.Lock()
	p.docs = append(slices.Clone(added), p.docs...)
	p.mu.Unlock()
	p.toasts.Success(fmt.Sprintf("%d file(s) uploaded successfully!", len(added)))
	return added, nil
}

// Delete removes a document. An unknown id is a no-op.
func (p *DocumentsPage) Delete(id string) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.docs, func(d model.Document) bool { return d.ID == id })
	if i < 0 {
		p.mu.Unlock()
		return nil
	}
	p.docs = slices.Delete(slices.Clone(p.docs), i, i+1)
	p.mu.Unlock()
	p.toasts.Success("Document deleted")
	return nil
}

// Open materializes a document's payload as a temporary file and hands its
// path to fn. The file is removed when Open returns, whether fn succeeds,
// fails or panics.
func (p *DocumentsPage) Open(id string, fn func(path string, doc model.Document) error) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.docs, func(d model.Document) bool { return d.ID == id })
	var doc model.Document
	if i >= 0 {
		doc = p.docs[i]
	}
	p.mu.Unlock()
	if i < 0 {
		return errors.NotFound("document "+id, nil)
	}
	if !doc.HasFile() {
		p.toasts.Error("File not available")
		return errors.NotFound("file not available", nil)
	}

	f, err := os.CreateTemp("", "jobdesk-*-"+doc.Name)
	if err != nil {
		return errors.Internal("create temp file", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("remove temp file", zap.String("path", path), zap.Error(err))
		}
	}()
	if _, err := f.Write(doc.File); err != nil {
		f.Close()
		return errors.Internal("write temp file", err)
	}
	if err := f.Close(); err != nil {
		return errors.Internal("close temp file", err)
	}
	return fn(path, doc)
}

// View projects the page.
func (p *DocumentsPage) View() DocumentsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := func(d model.Document) string { return string(d.Type) }
	list := view.Tab(view.Search(p.docs, p.search, view.DocumentFields), p.tab, key)
	counts := view.CountBy(p.docs, key)
	counts[view.TabAll] = len(p.docs)
	return DocumentsView{Search: p.search, Tab: p.tab, Documents: list, Counts: counts}
}
