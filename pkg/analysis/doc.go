// Package analysis implements the derived AI operations the CRM exposes:
// sentiment classification, intent extraction, response drafting, and
// conversation summarization.
//
// # Overview
//
// Every operation is a prompt template evaluated through exactly one router
// Generate call. The classification operations ask the model to respond with
// JSON only and recover the object from the raw text by slicing from the
// first '{' to the last '}'. A response with no recoverable JSON degrades to
// a fixed fallback (neutral sentiment, unknown intent) without surfacing an
// error; generation failures from the router propagate unmodified.
//
// # Usage
//
//	analyzer := analysis.NewAnalyzer(router, prompts.NewStore(), resultCache)
//
//	sentiment, err := analyzer.AnalyzeSentiment(ctx, "I love this product")
//	if err != nil {
//		// router failure: all providers failed, none registered, etc.
//	}
//
// Classification results can be cached through a ResultCache. Drafting and
// summarization run at higher temperatures and are never cached.
package analysis
