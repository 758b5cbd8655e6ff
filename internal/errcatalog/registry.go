package errcatalog

// registry holds every known deployment platform error in declaration order.
// Lookup by status relies on this order, the first match wins.
var registry = []Record{
	{
		Code:        "BODY_NOT_A_STRING_FROM_FUNCTION",
		Status:      502,
		Category:    "Function",
		Message:     "The function returned an invalid response format.",
		UserMessage: "Something went wrong while processing your request. Please try again.",
	},
	{
		Code:        "DEPLOYMENT_BLOCKED",
		Status:      403,
		Category:    "Deployment",
		Message:     "Deployment has been blocked.",
		UserMessage: "This deployment is currently blocked. Please contact support.",
	},
	{
		Code:        "DEPLOYMENT_DELETED",
		Status:      410,
		Category:    "Deployment",
		Message:     "Deployment has been deleted.",
		UserMessage: "This deployment no longer exists.",
	},
	{
		Code:        "DEPLOYMENT_DISABLED",
		Status:      402,
		Category:    "Deployment",
		Message:     "Deployment has been disabled.",
		UserMessage: "This deployment is currently disabled.",
	},
	{
		Code:        "DEPLOYMENT_NOT_FOUND",
		Status:      404,
		Category:    "Deployment",
		Message:     "Deployment not found.",
		UserMessage: "The requested page could not be found.",
	},
	{
		Code:        "DEPLOYMENT_NOT_READY_REDIRECTING",
		Status:      303,
		Category:    "Deployment",
		Message:     "Deployment is not ready, redirecting.",
		UserMessage: "The page is still being prepared. Please wait a moment.",
	},
	{
		Code:        "DEPLOYMENT_PAUSED",
		Status:      503,
		Category:    "Deployment",
		Message:     "Deployment is paused.",
		UserMessage: "This service is temporarily paused. Please check back later.",
	},
	{
		Code:        "DNS_HOSTNAME_EMPTY",
		Status:      502,
		Category:    "DNS",
		Message:     "DNS hostname is empty.",
		UserMessage: "There was an issue connecting to the server. Please try again.",
	},
	{
		Code:        "DNS_HOSTNAME_NOT_FOUND",
		Status:      502,
		Category:    "DNS",
		Message:     "DNS hostname not found.",
		UserMessage: "The server could not be found. Please check your connection.",
	},
	{
		Code:        "DNS_HOSTNAME_RESOLVE_FAILED",
		Status:      502,
		Category:    "DNS",
		Message:     "DNS hostname resolution failed.",
		UserMessage: "Unable to connect to the server. Please try again later.",
	},
	{
		Code:        "DNS_HOSTNAME_RESOLVED_PRIVATE",
		Status:      404,
		Category:    "DNS",
		Message:     "DNS hostname resolved to private IP.",
		UserMessage: "The requested resource is not accessible.",
	},
	{
		Code:        "DNS_HOSTNAME_SERVER_ERROR",
		Status:      502,
		Category:    "DNS",
		Message:     "DNS server error.",
		UserMessage: "There was a server error. Please try again later.",
	},
	{
		Code:        "EDGE_FUNCTION_INVOCATION_FAILED",
		Status:      500,
		Category:    "Function",
		Message:     "Edge function invocation failed.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "EDGE_FUNCTION_INVOCATION_TIMEOUT",
		Status:      504,
		Category:    "Function",
		Message:     "Edge function invocation timed out.",
		UserMessage: "The request took too long to process. Please try again.",
	},
	{
		Code:        "FALLBACK_BODY_TOO_LARGE",
		Status:      502,
		Category:    "Cache",
		Message:     "Fallback body is too large.",
		UserMessage: "The response is too large to process. Please contact support.",
	},
	{
		Code:        "FUNCTION_INVOCATION_FAILED",
		Status:      500,
		Category:    "Function",
		Message:     "Function invocation failed.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "FUNCTION_INVOCATION_TIMEOUT",
		Status:      504,
		Category:    "Function",
		Message:     "Function invocation timed out.",
		UserMessage: "The request took too long to process. Please try again.",
	},
	{
		Code:        "FUNCTION_PAYLOAD_TOO_LARGE",
		Status:      413,
		Category:    "Function",
		Message:     "Function payload is too large.",
		UserMessage: "The data you're trying to send is too large. Please reduce the size.",
	},
	{
		Code:        "FUNCTION_RESPONSE_PAYLOAD_TOO_LARGE",
		Status:      500,
		Category:    "Function",
		Message:     "Function response payload is too large.",
		UserMessage: "The server response is too large. Please contact support.",
	},
	{
		Code:        "FUNCTION_THROTTLED",
		Status:      503,
		Category:    "Function",
		Message:     "Function is being throttled.",
		UserMessage: "Too many requests. Please wait a moment and try again.",
	},
	{
		Code:        "INFINITE_LOOP_DETECTED",
		Status:      508,
		Category:    "Runtime",
		Message:     "Infinite loop detected.",
		UserMessage: "A processing error occurred. Please refresh the page.",
	},
	{
		Code:        "INVALID_IMAGE_OPTIMIZE_REQUEST",
		Status:      400,
		Category:    "Image",
		Message:     "Invalid image optimization request.",
		UserMessage: "The image request is invalid. Please check the image URL.",
	},
	{
		Code:        "INVALID_REQUEST_METHOD",
		Status:      405,
		Category:    "Request",
		Message:     "Invalid request method.",
		UserMessage: "The request method is not allowed.",
	},
	{
		Code:        "MALFORMED_REQUEST_HEADER",
		Status:      400,
		Category:    "Request",
		Message:     "Malformed request header.",
		UserMessage: "The request is invalid. Please try again.",
	},
	{
		Code:        "MICROFRONTENDS_MIDDLEWARE_ERROR",
		Status:      500,
		Category:    "Function",
		Message:     "Microfrontends middleware error.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "MICROFRONTENDS_MISSING_FALLBACK_ERROR",
		Status:      400,
		Category:    "Function",
		Message:     "Microfrontends missing fallback error.",
		UserMessage: "A configuration error occurred. Please contact support.",
	},
	{
		Code:        "MIDDLEWARE_INVOCATION_FAILED",
		Status:      500,
		Category:    "Function",
		Message:     "Middleware invocation failed.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "MIDDLEWARE_INVOCATION_TIMEOUT",
		Status:      504,
		Category:    "Function",
		Message:     "Middleware invocation timed out.",
		UserMessage: "The request took too long to process. Please try again.",
	},
	{
		Code:        "MIDDLEWARE_RUNTIME_DEPRECATED",
		Status:      503,
		Category:    "Runtime",
		Message:     "Middleware runtime is deprecated.",
		UserMessage: "This feature is no longer supported. Please contact support.",
	},
	{
		Code:        "NO_RESPONSE_FROM_FUNCTION",
		Status:      502,
		Category:    "Function",
		Message:     "No response from function.",
		UserMessage: "The server did not respond. Please try again.",
	},
	{
		Code:        "NOT_FOUND",
		Status:      404,
		Category:    "Deployment",
		Message:     "Resource not found.",
		UserMessage: "The page you're looking for doesn't exist.",
	},
	{
		Code:        "OPTIMIZED_EXTERNAL_IMAGE_REQUEST_FAILED",
		Status:      502,
		Category:    "Image",
		Message:     "Optimized external image request failed.",
		UserMessage: "Failed to load the image. Please try again.",
	},
	{
		Code:        "OPTIMIZED_EXTERNAL_IMAGE_REQUEST_INVALID",
		Status:      502,
		Category:    "Image",
		Message:     "Optimized external image request is invalid.",
		UserMessage: "The image request is invalid. Please check the image URL.",
	},
	{
		Code:        "OPTIMIZED_EXTERNAL_IMAGE_REQUEST_UNAUTHORIZED",
		Status:      502,
		Category:    "Image",
		Message:     "Optimized external image request is unauthorized.",
		UserMessage: "You don't have permission to access this image.",
	},
	{
		Code:        "OPTIMIZED_EXTERNAL_IMAGE_TOO_MANY_REDIRECTS",
		Status:      502,
		Category:    "Image",
		Message:     "Too many redirects for optimized external image.",
		UserMessage: "Failed to load the image due to too many redirects.",
	},
	{
		Code:        "RANGE_END_NOT_VALID",
		Status:      416,
		Category:    "Request",
		Message:     "Range end is not valid.",
		UserMessage: "The request range is invalid.",
	},
	{
		Code:        "RANGE_GROUP_NOT_VALID",
		Status:      416,
		Category:    "Request",
		Message:     "Range group is not valid.",
		UserMessage: "The request range is invalid.",
	},
	{
		Code:        "RANGE_MISSING_UNIT",
		Status:      416,
		Category:    "Request",
		Message:     "Range is missing unit.",
		UserMessage: "The request range is invalid.",
	},
	{
		Code:        "RANGE_START_NOT_VALID",
		Status:      416,
		Category:    "Request",
		Message:     "Range start is not valid.",
		UserMessage: "The request range is invalid.",
	},
	{
		Code:        "RANGE_UNIT_NOT_SUPPORTED",
		Status:      416,
		Category:    "Request",
		Message:     "Range unit is not supported.",
		UserMessage: "The request range format is not supported.",
	},
	{
		Code:        "REQUEST_HEADER_TOO_LARGE",
		Status:      431,
		Category:    "Request",
		Message:     "Request header is too large.",
		UserMessage: "The request is too large. Please try again.",
	},
	{
		Code:        "RESOURCE_NOT_FOUND",
		Status:      404,
		Category:    "Request",
		Message:     "Resource not found.",
		UserMessage: "The requested resource could not be found.",
	},
	{
		Code:        "ROUTER_CANNOT_MATCH",
		Status:      502,
		Category:    "Routing",
		Message:     "Router cannot match route.",
		UserMessage: "Unable to process the request. Please try again.",
	},
	{
		Code:        "ROUTER_EXTERNAL_TARGET_CONNECTION_ERROR",
		Status:      502,
		Category:    "Routing",
		Message:     "Router external target connection error.",
		UserMessage: "Connection error. Please try again.",
	},
	{
		Code:        "ROUTER_EXTERNAL_TARGET_ERROR",
		Status:      502,
		Category:    "Routing",
		Message:     "Router external target error.",
		UserMessage: "A routing error occurred. Please try again.",
	},
	{
		Code:        "ROUTER_EXTERNAL_TARGET_HANDSHAKE_ERROR",
		Status:      502,
		Category:    "Routing",
		Message:     "Router external target handshake error.",
		UserMessage: "Connection error. Please try again.",
	},
	{
		Code:        "ROUTER_TOO_MANY_HAS_SELECTIONS",
		Status:      502,
		Category:    "Routing",
		Message:     "Router has too many has selections.",
		UserMessage: "A routing error occurred. Please try again.",
	},
	{
		Code:        "SANDBOX_NOT_FOUND",
		Status:      404,
		Category:    "Sandbox",
		Message:     "Sandbox not found.",
		UserMessage: "The requested resource could not be found.",
	},
	{
		Code:        "SANDBOX_NOT_LISTENING",
		Status:      502,
		Category:    "Sandbox",
		Message:     "Sandbox is not listening.",
		UserMessage: "The server is not responding. Please try again.",
	},
	{
		Code:        "SANDBOX_STOPPED",
		Status:      410,
		Category:    "Sandbox",
		Message:     "Sandbox has stopped.",
		UserMessage: "The service is no longer available.",
	},
	{
		Code:        "TOO_MANY_FILESYSTEM_CHECKS",
		Status:      502,
		Category:    "Routing",
		Message:     "Too many filesystem checks.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "TOO_MANY_FORKS",
		Status:      502,
		Category:    "Routing",
		Message:     "Too many forks.",
		UserMessage: "A server error occurred. Please try again.",
	},
	{
		Code:        "TOO_MANY_RANGES",
		Status:      416,
		Category:    "Request",
		Message:     "Too many ranges.",
		UserMessage: "The request contains too many ranges.",
	},
	{
		Code:        "URL_TOO_LONG",
		Status:      414,
		Category:    "Request",
		Message:     "URL is too long.",
		UserMessage: "The URL is too long. Please use a shorter URL.",
	},
}
