// Package scaffold creates a starter project: a sample datasource, a card
// template and the project configuration, ready for `cardpress make`.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardpress/cardpress/internal/config"
)

const sampleCards = `title,text,@count,@template
Strike,Deal 3 damage to any target.,2,card.html
Heal,Restore 2 health.,1,card.html
Block,"Prevent the next 2 damage you would take.  Lasts one turn.",1,card.html
`

const sampleDefinitions = `field,content
_title,{{ project }}
_description,A deck built with cardpress.
_author,
_copyright,
_version,v1
_page_footer,{{ _title }} {{ _version }}
`

const sampleTemplate = `<style>
    .sample-card {
        display: flex;
        flex-direction: column;
        height: 100%;
        box-sizing: border-box;
        padding: 0.12in;
        font-family: Georgia, serif;
    }

    .sample-card-title {
        font-size: 14pt;
        font-weight: bold;
        text-align: center;
        border-bottom: 1px solid #d0d0d0;
        padding-bottom: 0.06in;
    }

    .sample-card-text {
        font-size: 10pt;
        margin-top: 0.1in;
    }
</style>
<div class="sample-card">
    <div class="sample-card-title">{{ title }}</div>
    <div class="sample-card-text">{{ text }}</div>
</div>
`

// Create writes a starter project into a new directory named after the
// project. It refuses to touch a directory that already exists.
func Create(name string) (string, error) {
	if name == "" {
		name = "my-deck"
	}
	root := name

	if _, err := os.Stat(root); err == nil {
		return "", fmt.Errorf("directory %s already exists", root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("creating project directory: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Title = name
	if err := cfg.Save(filepath.Join(root, config.Filename)); err != nil {
		return "", err
	}

	files := map[string]string{
		"cards.csv":       sampleCards,
		"definitions.csv": strings.ReplaceAll(sampleDefinitions, "{{ project }}", name),
		"card.html":       sampleTemplate,
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(root, file), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", file, err)
		}
	}
	return root, nil
}
