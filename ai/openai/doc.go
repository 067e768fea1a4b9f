// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// Both services talk to an OpenAI-compatible endpoint through langchaingo.
// The default host is Gemini's OpenAI-compatible surface, authenticated with
// the key from GOOGLE_API_KEY or EARNCALL_API_KEY.
//
// # Usage
//
//	config, err := ai.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Revenue grew 10% year over year.")
//	statements, err := provider.StatementExtractor().ExtractStatements(ctx, chunk,
//	    openai.DefaultInputs("TechNova Inc", "2024-04-15", "Q1 2024"))
package openai
