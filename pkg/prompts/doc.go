// Package prompts holds the prompt templates used by the derived analysis
// operations (sentiment, intent, response drafting, summarization).
//
// # Overview
//
// The Store starts from built-in templates matching the wording the analysis
// operations were tuned against, and can layer overrides from a YAML file:
//
//	sentiment: |-
//	  Classify the following text...
//
// Overrides are validated (parsed and dry-run rendered) before they are
// applied, and an invalid file never replaces the active set. Watch provides
// hot reload through fsnotify with debouncing, again keeping the last good
// set when a reload fails.
//
// # Usage
//
//	store := prompts.NewStore()
//	if path := cfg.Analysis.PromptFile; path != "" {
//		if err := store.LoadFile(path); err != nil {
//			return err
//		}
//		go store.Watch(ctx)
//	}
//	text, err := store.Render(prompts.Sentiment, prompts.TextData{Text: msg})
//
// Templates are standard text/template; the payload types in this package
// define the fields each template may reference.
package prompts
