package context

type Key string

// Params holds the httprouter.Params of the matched route.
const Params Key = "params"
