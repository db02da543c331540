package main

import "github.com/zzanghsi8873/bplog/cmd/bplog"

func main() {
	bplog.Execute()
}
