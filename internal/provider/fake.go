package provider

import "context"

// FakeProvider returns a canned response or error. Test double.
type FakeProvider struct {
	ResponseText string
	Error        error

	// LastRequest records the most recent request for assertions.
	LastRequest *Request
}

// NewFake creates a provider that always answers with response.
func NewFake(response string) *FakeProvider {
	return &FakeProvider{ResponseText: response}
}

func (f *FakeProvider) ChatCompletion(ctx context.Context, req *Request) (*Response, error) {
	f.LastRequest = req
	if f.Error != nil {
		return nil, f.Error
	}
	return &Response{Content: f.ResponseText}, nil
}
