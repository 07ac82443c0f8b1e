package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Report is the flattened recommendation summary published as one database
// page. The caller maps its domain result into this shape so the package
// stays free of scoring-engine types.
type Report struct {
	Title       string
	Category    string
	Origin      string
	Source      string
	Confidence  float64
	GeneratedAt time.Time
	// Lines become the page body, one bulleted item each (ranked markets,
	// exclusions, warnings).
	Lines []string
}

// PublishReport creates one page for the report in the given database.
// Returns the created page ID.
func PublishReport(ctx context.Context, c Client, databaseID string, rep Report) (string, error) {
	if databaseID == "" {
		return "", eris.New("notion: report database id is required")
	}
	if rep.Title == "" {
		return "", eris.New("notion: report title is required")
	}

	generated := rep.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	date := notionapi.Date(generated)

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Type:  notionapi.PropertyTypeTitle,
				Title: richText(rep.Title),
			},
			"Category": notionapi.RichTextProperty{
				Type:     notionapi.PropertyTypeRichText,
				RichText: richText(rep.Category),
			},
			"Origin": notionapi.RichTextProperty{
				Type:     notionapi.PropertyTypeRichText,
				RichText: richText(rep.Origin),
			},
			"Source": notionapi.SelectProperty{
				Select: notionapi.Option{Name: rep.Source},
			},
			"Confidence": notionapi.NumberProperty{
				Number: rep.Confidence,
			},
			"Generated": notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &date},
			},
		},
		Children: reportBlocks(rep.Lines),
	}

	page, err := c.CreatePage(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: publish report %q", rep.Title))
	}
	return string(page.ID), nil
}

func reportBlocks(lines []string) []notionapi.Block {
	blocks := make([]notionapi.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, &notionapi.BulletedListItemBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeBulletedListItem,
			},
			BulletedListItem: notionapi.ListItem{
				RichText: richText(line),
			},
		})
	}
	return blocks
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}
