// Package research implements a multi-round research workflow on top of the
// workflow engine.
//
// A run starts from a question. The model first proposes search queries,
// then each round summarizes the findings for the active queries, and a
// reflection step judges whether the accumulated summaries are enough.
// If they are not, the reflection's follow-up queries drive the next round.
// Once the findings are sufficient, or the round cap is reached, a final step
// synthesizes the answer.
//
//	r, err := research.New(gateway)
//	if err != nil {
//	    return err
//	}
//	answer, err := r.Answer(ctx, "How do heat pumps work in cold climates?")
//
// Every model response must carry its structured payload between <json> and
// </json> markers. A response without a usable payload, or a failed gateway
// call, aborts the run; there are no retries and no partial answers. A run
// that completes without a final answer yields FallbackMessage.
package research
