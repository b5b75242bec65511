package question

import (
	"context"
	"sync"
)

// ExampleQuestions is a small batch covering three categories, handy for
// smoke-testing a deployment.
var ExampleQuestions = []Request{
	{Message: "How to download the mobile app?", Category: "Technical Support"},
	{Message: "What are the pricing plans?", Category: "Billing"},
	{Message: "How to contact support?", Category: "General Support"},
}

// AskAll sends every request concurrently. The i-th response belongs to the
// i-th request regardless of completion order.
func AskAll(ctx context.Context, asker Asker, reqs []Request) []Response {
	responses := make([]Response, len(reqs))

	var wg sync.WaitGroup
	wg.Add(len(reqs))
	for i, req := range reqs {
		go func(i int, req Request) {
			defer wg.Done()
			responses[i] = asker.AskQuestion(ctx, req)
		}(i, req)
	}
	wg.Wait()

	return responses
}
