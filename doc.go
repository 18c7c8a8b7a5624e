// Package delve answers questions by running a bounded, multi-round research
// workflow against a language model.
//
// A run generates search queries for the user's question, asks the model to
// research each one, reflects on whether the gathered summaries are enough,
// and either researches follow-up queries or synthesizes a final answer. The
// number of research rounds is capped, so every run terminates.
//
// # Core Interfaces
//
// The root package defines the contract every model backend satisfies:
//
//   - [Gateway]: send a prompt, receive text
//
// Concrete gateways for Anthropic, OpenAI, Google and Ollama are created
// through the [github.com/spetersoncode/delve/client] package. The workflow
// itself lives in [github.com/spetersoncode/delve/research], built on the
// generic step graph in [github.com/spetersoncode/delve/workflow].
//
// # Basic Usage
//
//	gw, err := client.New(ctx, client.Config{
//	    Provider: delve.ProviderAnthropic,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := research.New(gw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	answer, err := r.Answer(ctx, "How do Go generics handle type inference?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(answer)
//
// # Error Handling
//
// Gateway failures surface as [*GatewayError] and match [ErrGatewayFailure]
// with errors.Is. Providers classify the underlying SDK error into a
// [*Error] with an [ErrorCategory]:
//
//	if delve.IsTransient(err) {
//	    // rate limited or server overloaded
//	}
//
// The workflow steps never retry; a failed call ends the run. A client may
// be configured to retry transient errors below the gateway interface.
package delve
