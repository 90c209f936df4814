package toolsgen

//go:generate go run ../cmd/toolgen --out tools_gen.go
