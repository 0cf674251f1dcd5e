/*
Package borabora reads and writes CBOR without decoding whole documents.

Reading is driven by queries. A query is a chain of steps, each one moving
from the offset of an item to the offset of another: the root of the input,
an element of a sequence, the value of a dictionary entry, the content of a
semantic tag. A Parser compiles chains into immutable plans and evaluates
them against inputs. Nothing but the bytes on the path is looked at.

	p := borabora.NewParser()
	plan := p.Prepare(borabora.Key("b"), borabora.Index(1))

	v, err := p.Read(borabora.NewInput(data), plan)

The located item is returned as a Value, a lazy handle decoding the item on
demand. Semantic tags are decoded by an ordered list of tag decoders: dates,
timestamps, big numbers, embedded CBOR and URIs are supported out of the box.

Writing goes forward only, through an Encoder and the builders it opens for
sequences, dictionaries and indefinite length strings. Builders check that
containers receive exactly the number of elements they announced.

	e := p.NewEncoder(out)
	dict, err := e.PutDictionary(1)
	...
	err = dict.Put("a", 1)
	...
	err = dict.End()

A plan may be evaluated by many goroutines at once. An Encoder and its
builders must be used by one goroutine at a time.
*/
package borabora
