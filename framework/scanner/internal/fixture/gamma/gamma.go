package gamma

type Gum struct{}
