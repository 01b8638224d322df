package main

func main() {
	uciLoop()
}
