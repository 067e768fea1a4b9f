// Package mock holds in-process stand-ins for the ai services so chunking,
// ingestion and the workspace can be tested without a network.
//
// MockEmbedder returns unit vectors of DefaultDimensions entries that depend
// only on the input text, so the same sentence always embeds the same way.
// NewFailingEmbedder simulates an outage. MockStatementExtractor turns each
// sentence of a chunk into a FACT/STATIC statement unless ExtractFunc is set.
//
//	provider := mock.NewMockProvider()
//	extractor := provider.(*mock.MockProvider).GetMockExtractor()
//	extractor.ExtractFunc = func(ctx context.Context, chunk string, _ []ai.PromptInput) ([]taxonomy.Statement, error) {
//		return nil, errors.New("rate limited")
//	}
package mock
