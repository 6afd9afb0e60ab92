package ui

import (
	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/jo-hoe/imgup/internal/view"
)

// Element ids the behaviors render into.
const (
	TargetRecent    = "recent-image"
	TargetInfo      = "image-info"
	TargetFileInput = "upload-file"
	TargetModal     = "modal"
)

const (
	TitleSuccess = "Success"
	TitleError   = "Error"
)

// Page is the surface the behaviors render into.
type Page interface {
	// Replace swaps the whole content of target for nodes in one update.
	Replace(target string, nodes []view.Node)
	ModalAlert(title string, body []view.Node)
	ClearFileInput()
	// SelectedFiles returns the files currently chosen in the file picker.
	SelectedFiles() []apiclient.File
	// Location is the absolute URL of the current page.
	Location() string
}

type MutationKind int

const (
	MutationReplace MutationKind = iota
	MutationModal
	MutationClearFileInput
)

func (k MutationKind) String() string {
	switch k {
	case MutationReplace:
		return "replace"
	case MutationModal:
		return "modal"
	case MutationClearFileInput:
		return "clear-file-input"
	default:
		return "unknown"
	}
}

type Mutation struct {
	Kind   MutationKind
	Target string
	Title  string
	Nodes  []view.Node
}

// Recorder is a Page that keeps every mutation in call order. It belongs to a
// single invocation and is not safe for concurrent use.
type Recorder struct {
	// OnMutation, when set, is called for every mutation as it is recorded.
	OnMutation func(Mutation)

	location  string
	files     []apiclient.File
	mutations []Mutation
}

func NewRecorder(location string, files []apiclient.File) *Recorder {
	return &Recorder{
		location: location,
		files:    files,
	}
}

func (r *Recorder) Replace(target string, nodes []view.Node) {
	r.record(Mutation{Kind: MutationReplace, Target: target, Nodes: nodes})
}

func (r *Recorder) ModalAlert(title string, body []view.Node) {
	r.record(Mutation{Kind: MutationModal, Target: TargetModal, Title: title, Nodes: body})
}

func (r *Recorder) ClearFileInput() {
	r.files = nil
	r.record(Mutation{Kind: MutationClearFileInput, Target: TargetFileInput})
}

func (r *Recorder) SelectedFiles() []apiclient.File {
	return r.files
}

func (r *Recorder) Location() string {
	return r.location
}

// Mutations returns the recorded mutations in call order.
func (r *Recorder) Mutations() []Mutation {
	return r.mutations
}

// Final returns the last mutation per target, ordered by the first time each
// target was touched.
func (r *Recorder) Final() []Mutation {
	index := make(map[string]int)
	var out []Mutation
	for _, m := range r.mutations {
		if i, ok := index[m.Target]; ok {
			out[i] = m
			continue
		}
		index[m.Target] = len(out)
		out = append(out, m)
	}
	return out
}

// Touched reports whether anything was rendered into target.
func (r *Recorder) Touched(target string) bool {
	for _, m := range r.mutations {
		if m.Target == target {
			return true
		}
	}
	return false
}

func (r *Recorder) record(m Mutation) {
	r.mutations = append(r.mutations, m)
	if r.OnMutation != nil {
		r.OnMutation(m)
	}
}
