package pipeline

// PreserveTail copies the bytes past the aligned boundary from src to dst unchanged.
func PreserveTail(dst, src []byte, plan Plan) {
	copy(dst[plan.Aligned:plan.Size], src[plan.Aligned:plan.Size])
}
