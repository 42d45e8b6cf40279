package engine

import (
	"context"

	"github.com/skyeops/atlas/internal/pageconfig"
)

// BatchResult is one batch of progressively loaded sections.
type BatchResult struct {
	Sections     map[string]SectionResult `json:"sections"`
	SectionOrder []string                 `json:"section_order"`
	HasMore      bool                     `json:"has_more"`
	NextIndex    int                      `json:"next_index"`
	LoadedCount  int                      `json:"loaded_count"`
	TotalCount   int                      `json:"total_count"`
}

// InitialBatch loads the first sections of a page.
func (e *Engine) InitialBatch(ctx context.Context, page *pageconfig.Page) BatchResult {
	return e.LoadBatch(ctx, page, 0, e.cfg.InitialCount)
}

// LoadBatch loads sections [startIndex, startIndex+batchSize) of a page
// in declaration order. Indexes past the end yield an empty batch with
// has_more=false.
func (e *Engine) LoadBatch(ctx context.Context, page *pageconfig.Page, startIndex, batchSize int) BatchResult {
	total := len(page.Sections)
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > total {
		startIndex = total
	}
	end := startIndex + batchSize
	if end > total {
		end = total
	}

	result := BatchResult{
		Sections:   make(map[string]SectionResult, end-startIndex),
		NextIndex:  end,
		HasMore:    end < total,
		TotalCount: total,
	}
	for i := startIndex; i < end; i++ {
		section := &page.Sections[i]
		result.SectionOrder = append(result.SectionOrder, section.Name)
		result.Sections[section.Name] = e.LoadSection(ctx, section, e.cfg.CardLimit)
	}
	result.LoadedCount = len(result.SectionOrder)
	return result
}
