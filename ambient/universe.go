// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ambient

// Universe lists the built-in functions available in every session.
var Universe = []string{
	// strings
	"addslashes",
	"explode",
	"implode",
	"join",
	"lcfirst",
	"ltrim",
	"nl2br",
	"number_format",
	"printf",
	"rtrim",
	"sprintf",
	"str_contains",
	"str_ends_with",
	"str_pad",
	"str_repeat",
	"str_replace",
	"str_split",
	"str_starts_with",
	"strcmp",
	"strlen",
	"strpos",
	"strrev",
	"strtolower",
	"strtoupper",
	"substr",
	"trim",
	"ucfirst",
	"ucwords",
	"vsprintf",
	"wordwrap",

	// arrays
	"array_filter",
	"array_key_exists",
	"array_keys",
	"array_map",
	"array_merge",
	"array_pop",
	"array_push",
	"array_reduce",
	"array_reverse",
	"array_search",
	"array_shift",
	"array_slice",
	"array_sum",
	"array_unique",
	"array_values",
	"count",
	"in_array",
	"range",
	"sort",
	"usort",

	// math
	"abs",
	"ceil",
	"floor",
	"intdiv",
	"max",
	"min",
	"pow",
	"rand",
	"round",
	"sqrt",

	// types and variables
	"gettype",
	"intval",
	"is_array",
	"is_bool",
	"is_callable",
	"is_float",
	"is_int",
	"is_null",
	"is_numeric",
	"is_string",
	"print_r",
	"serialize",
	"strval",
	"unserialize",
	"var_dump",
	"var_export",

	// functions
	"call_user_func",
	"call_user_func_array",
	"func_get_args",
	"function_exists",

	// json
	"json_decode",
	"json_encode",

	// time
	"date",
	"microtime",
	"time",

	// files
	"file_exists",
	"file_get_contents",
	"file_put_contents",
	"fopen",
	"fwrite",
	"fclose",
}
