package builtins

var javascriptGlobals = []string{
	"this",
	"undefined",
	"alert",
	"arguments",
	"window",
	"document",
	"console",
	"JSON",
	"parseInt",
	"parseFloat",
	"Math",
	"isNaN",
	"isFinite",
	"eval",
	"require",
}

var pythonNames = []string{
	"bool",
	"int",
	"float",
}

var nativeClasses = []string{
	"Array",
	"ArrayBuffer",
	"Boolean",
	"DataView",
	"Date",
	"Error",
	"EvalError",
	"Float32Array",
	"Float64Array",
	"Function",
	"Int8Array",
	"Int16Array",
	"Int32Array",
	"Map",
	"Number",
	"Object",
	"Promise",
	"Proxy",
	"RangeError",
	"ReferenceError",
	"RegExp",
	"Set",
	"String",
	"Symbol",
	"SyntaxError",
	"TypeError",
	"URIError",
	"Uint8Array",
	"Uint8ClampedArray",
	"Uint16Array",
	"Uint32Array",
	"WeakMap",
	"WeakSet",
	"XMLHttpRequest",
}

// Defaults returns the built-in catalog: JavaScript globals, the Python
// conversion names and JavaScript native classes.
func Defaults() []string {
	out := make([]string, 0, len(javascriptGlobals)+len(pythonNames)+len(nativeClasses))
	out = append(out, javascriptGlobals...)
	out = append(out, pythonNames...)
	return append(out, nativeClasses...)
}
