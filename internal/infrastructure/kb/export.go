// Package kb renders validated records as knowledge-base documents and
// pushes them to a Dify dataset.
package kb

import (
	"fmt"
	"strings"

	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/taxonomy"
)

const headerSeparator = 80

// RenderDocument formats one record as a plain-text document: a metadata
// header, a separator line, then the content. The layout matches what the
// downstream dataset importer expects.
func RenderDocument(tree *taxonomy.Tree, record domain.Record) string {
	category := strings.Join(tree.DisplayPath(record.Classification.Path), " / ")
	if category == "" {
		category = "未分类"
	}

	published := ""
	if !record.PublishTime.IsZero() {
		published = record.PublishTime.Format("2006-01-02 15:04:05")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "标题: %s\n", record.Title)
	fmt.Fprintf(&b, "来源: %s\n", record.SourceID)
	fmt.Fprintf(&b, "作者: %s\n", record.Author)
	fmt.Fprintf(&b, "发布时间: %s\n", published)
	fmt.Fprintf(&b, "URL: %s\n", record.URL)
	fmt.Fprintf(&b, "分类: %s\n", category)
	fmt.Fprintf(&b, "质量评分: %.2f\n", record.Quality.Score)
	fmt.Fprintf(&b, "置信度: %.2f\n", record.Classification.Confidence[0])
	b.WriteString(strings.Repeat("=", headerSeparator))
	b.WriteString("\n")
	b.WriteString(record.Content)
	b.WriteString("\n")
	return b.String()
}

// DocumentName derives the dataset document name; untitled records fall back
// to the source and external identifiers.
func DocumentName(record domain.Record) string {
	name := strings.TrimSpace(record.Title)
	if name == "" {
		name = fmt.Sprintf("%s-%s", record.SourceID, record.ExternalID)
	}
	return name
}
