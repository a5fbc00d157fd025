// Command heapctl drives and inspects a fixed-arena heap allocator.
package main

func main() {
	execute()
}
