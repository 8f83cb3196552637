// Package urls holds the fixed external links used by the result views.
//
// Both can be overridden in the links section of config.yaml; these are the
// defaults written by `neckscan config init`.
//
//	fmt.Printf("자세히 보기: %s\n", urls.ProductPage)
package urls
