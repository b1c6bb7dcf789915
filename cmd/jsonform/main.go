// Command jsonform serves declarative forms over HTTP and renders, exports
// or fills them from the terminal.
package main

func main() {
	Execute()
}
