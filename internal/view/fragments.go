package view

import (
	"fmt"
	"math"

	"github.com/jo-hoe/imgup/internal/apiclient"
)

const (
	LoadingText = "Loading..."

	// DetailPathSegment is appended to the current page URL to form a shareable link.
	DetailPathSegment = "i/"
)

// Loading is the placeholder shown while the recent list is requested.
func Loading() []Node {
	return []Node{Text(LoadingText)}
}

// RecentGrid renders one grid cell per id, in the order given by the server.
func RecentGrid(list *apiclient.RecentList) []Node {
	cells := make([]Node, 0, len(list.IDs))
	for _, id := range list.IDs {
		cells = append(cells, El("div", A("class", "col-md-4"),
			El("a", A("href", "/"+DetailPathSegment+id),
				El("img", A("width", "100%", "src", list.StorageURL+"/"+id)),
			),
		))
	}
	return cells
}

// RecentError is the inline message left in the recent list when loading fails.
func RecentError(err error) []Node {
	return []Node{Text(fmt.Sprintf("Error happened: %v", err))}
}

// DetailInfo renders captions with their confidence followed by the tags.
func DetailInfo(detail *apiclient.ImageDetail) []Node {
	captions := make([]Node, 0, len(detail.Captions))
	for _, c := range detail.Captions {
		captions = append(captions, El("li", nil, Text(fmt.Sprintf("%s – %s", c.Text, Percent(c.Confidence)))))
	}

	tags := make([]Node, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		tags = append(tags, El("li", nil, Text(tag)))
	}

	return []Node{
		El("h3", nil, Text("Captions")),
		El("ul", nil, captions...),
		El("h3", nil, Text("Tags")),
		El("ul", nil, tags...),
	}
}

// Percent formats a 0..1 confidence as a whole percentage, halves rounded up.
func Percent(confidence float64) string {
	return fmt.Sprintf("%d%%", int(math.Floor(confidence*100.0+0.5)))
}

// ShareURL joins the current page URL and the image id without any normalisation.
func ShareURL(pageURL, id string) string {
	return pageURL + DetailPathSegment + id
}

// UploadSuccess is the modal body shown after an upload.
func UploadSuccess(shareURL string) []Node {
	return []Node{
		El("p", nil, Text("Your image has been uploaded")),
		El("div", A("class", "container"),
			El("p", nil,
				Text("Copy the URL below or "),
				El("a", A("href", shareURL), Text("open it")),
			),
			El("input", A("readonly", "", "value", shareURL, "style", "width:100%;")),
		),
	}
}

// ErrorBody is the modal body for a failed request.
func ErrorBody(err error) []Node {
	return []Node{El("p", nil, Text(err.Error()))}
}

// Modal wraps title and body in a dialog that closes itself.
func Modal(title string, body []Node) Node {
	content := append([]Node{El("h3", nil, Text(title))}, body...)
	content = append(content, El("form", A("method", "dialog"),
		El("button", A("type", "submit"), Text("Close")),
	))
	return El("dialog", A("open", ""), El("article", nil, content...))
}
