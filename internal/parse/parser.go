package parse

import (
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// Result is the deterministic local pipeline's output for one message.
type Result struct {
	Items []order.ItemSpec
	Meta  order.Metadata
}

// Parser is the deterministic local pipeline: normalize, extract, resolve
// against the prior order, infer metadata. It holds only the read-only
// catalog and is safe for concurrent use.
type Parser struct {
	catalog *catalog.Catalog
}

func NewParser(c *catalog.Catalog) *Parser {
	return &Parser{catalog: c}
}

// Parse runs the full local pipeline over one raw message. prior may be nil;
// modification keywords are only honored when it is not.
func (p *Parser) Parse(raw string, prior *order.Order) (*Result, error) {
	n := Normalize(raw)

	mentions, err := ExtractMentions(p.catalog, n)
	if err != nil {
		return nil, err
	}

	specs, err := Resolve(prior, mentions)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, &NoLineItemsFoundError{Excerpt: excerpt(raw)}
	}

	return &Result{Items: specs, Meta: InferMetadata(n)}, nil
}
