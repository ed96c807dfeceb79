package bind_group_provider

// BufferWrite is one queued GPU buffer update: the target provider, the
// binding whose buffer receives the data, and the byte offset to write at.
// The renderer applies batches of these through the queue.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
