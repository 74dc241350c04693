package function

// BOUND, COALESCE and IF are not registered here: they need to see
// argument-evaluation errors and, for IF, avoid evaluating the untaken
// branch, so the expression evaluator special-cases them ahead of the
// registry lookup instead of calling through Func's eager-argument
// signature.
func registerControlFuncs(r *Registry) {}
