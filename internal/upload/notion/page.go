package notion

import "github.com/joseph-ayodele/screenshot-vocab/internal/entity"

// Wire shapes for POST /v1/pages. Only the block and property types used here
// are modelled.

type page struct {
	Parent     parent              `json:"parent"`
	Properties map[string]property `json:"properties"`
	Children   []block             `json:"children,omitempty"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type property struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Select   *option    `json:"select,omitempty"`
	URL      *string    `json:"url,omitempty"`
}

type richText struct {
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

type option struct {
	Name string `json:"name"`
}

type block struct {
	Object           string     `json:"object"`
	Type             string     `json:"type"`
	Image            *imageBody `json:"image,omitempty"`
	Heading2         *textBody  `json:"heading_2,omitempty"`
	BulletedListItem *textBody  `json:"bulleted_list_item,omitempty"`
}

type imageBody struct {
	Type     string  `json:"type"`
	External extLink `json:"external"`
}

type extLink struct {
	URL string `json:"url"`
}

type textBody struct {
	RichText []richText `json:"rich_text"`
}

func text(s string) []richText {
	return []richText{{Text: textContent{Content: s}}}
}

func buildPage(databaseID string, e entity.LearningEntry, imageURL string) page {
	props := map[string]property{
		propWord:       {Title: text(e.Phrase)},
		propChinese:    {RichText: text(e.Translation)},
		propDefinition: {RichText: text(e.Explanation)},
		propType:       {Select: &option{Name: string(e.Kind())}},
	}
	var children []block
	if imageURL != "" {
		u := imageURL
		props[propImageURL] = property{URL: &u}
		children = append(children, block{
			Object: "block",
			Type:   "image",
			Image:  &imageBody{Type: "external", External: extLink{URL: imageURL}},
		})
	}
	children = append(children, block{
		Object:   "block",
		Type:     "heading_2",
		Heading2: &textBody{RichText: text("Examples")},
	})
	if e.Example != "" {
		children = append(children, block{
			Object:           "block",
			Type:             "bulleted_list_item",
			BulletedListItem: &textBody{RichText: text(e.Example)},
		})
	}
	return page{Parent: parent{DatabaseID: databaseID}, Properties: props, Children: children}
}
