package compiler

import "github.com/aretw0/clickflow/pkg/domain"

// Find returns the first flow with the given id, in document order.
func Find(doc *domain.Document, id string) (*domain.Flow, error) {
	if doc == nil {
		return nil, domain.FlowNotFound(id)
	}
	for i := range doc.Flows {
		if doc.Flows[i].ID == id {
			return &doc.Flows[i], nil
		}
	}
	return nil, domain.FlowNotFound(id)
}
