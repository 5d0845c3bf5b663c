package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubfront"
	"github.com/eringen/pubfront/richtext"
)

// loadDocument reads a rich-text document from a JSON or YAML file. The
// file holds either the block list itself or an object with a content key.
func loadDocument(path string) (richtext.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc richtext.Document
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	var wrapped struct {
		Content richtext.Document `yaml:"content"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrapped.Content, nil
}

func runReadTime(c *cli.Context) error {
	path, err := argFile(c)
	if err != nil {
		return err
	}
	count, ok := richtext.CounterByName(c.String("counting"))
	if !ok {
		return fmt.Errorf("unknown counting %q (want legacy or fields)", c.String("counting"))
	}
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	est := richtext.Estimator{WordsPerMinute: c.Int("wpm"), Count: count}
	minutes, err := est.Estimate(doc)
	if err != nil {
		return err
	}
	out := c.App.Writer
	if c.Bool("words") {
		fmt.Fprintf(out, "%d words\n", est.Words(doc))
	}
	fmt.Fprintln(out, pubfront.ReadTimeLabel(minutes))
	return nil
}
