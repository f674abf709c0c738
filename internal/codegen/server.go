package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/types"
)

// routeEntry is one collected `route` declaration, kept around so the
// whole table can be sorted by specificity before emission (spec §4.4
// "Routes are sorted by specificity so static `/users/active` precedes
// parametric `/users/:id`").
type routeEntry struct {
	method, path string
	decl         *ast.RouteDecl
}

// EmitServer renders one `server [name] { ... }` block as a self-contained
// Bun-compatible JS file (spec §4.4 "Server emitter").
func (c *Context) EmitServer(name string, body []ast.Stmt) string {
	var routes []routeEntry
	var middlewares []*ast.MiddlewareDecl
	var models []*ast.ModelDecl
	var dbs []*ast.DbDecl
	var sses []*ast.SseDecl
	var wss []*ast.WsDecl
	var auths []*ast.AuthDecl
	var sessions []*ast.SessionDecl
	var schedules []*ast.ScheduleDecl
	var rateLimits []*ast.RateLimitDecl
	var compressions []*ast.CompressionDecl
	var uploads []*ast.UploadDecl
	var corses []*ast.CorsDecl
	var envs []*ast.EnvDecl
	var lifecycles []*ast.LifecycleDecl
	var healths []*ast.HealthDecl
	var statics []*ast.StaticDecl
	var backgrounds []*ast.BackgroundDecl
	var rpcFuncs []*ast.FunctionDecl
	var rest []ast.Stmt

	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.RouteDecl:
			routes = append(routes, routeEntry{method: s.Method, path: s.Path, decl: s})
		case *ast.MiddlewareDecl:
			middlewares = append(middlewares, s)
		case *ast.ModelDecl:
			models = append(models, s)
		case *ast.DbDecl:
			dbs = append(dbs, s)
		case *ast.SseDecl:
			sses = append(sses, s)
		case *ast.WsDecl:
			wss = append(wss, s)
		case *ast.AuthDecl:
			auths = append(auths, s)
		case *ast.SessionDecl:
			sessions = append(sessions, s)
		case *ast.ScheduleDecl:
			schedules = append(schedules, s)
		case *ast.RateLimitDecl:
			rateLimits = append(rateLimits, s)
		case *ast.CompressionDecl:
			compressions = append(compressions, s)
		case *ast.UploadDecl:
			uploads = append(uploads, s)
		case *ast.CorsDecl:
			corses = append(corses, s)
		case *ast.EnvDecl:
			envs = append(envs, s)
		case *ast.LifecycleDecl:
			lifecycles = append(lifecycles, s)
		case *ast.HealthDecl:
			healths = append(healths, s)
		case *ast.StaticDecl:
			statics = append(statics, s)
		case *ast.BackgroundDecl:
			backgrounds = append(backgrounds, s)
		case *ast.FunctionDecl:
			rpcFuncs = append(rpcFuncs, s)
			rest = append(rest, s)
		default:
			rest = append(rest, s)
		}
	}

	sortRoutes(routes)

	label := name
	if label == "" {
		label = "default"
	}

	// Every server carries the same ambient infrastructure regardless of
	// which decls it declares (spec §4.4 "Server emitter"): response
	// helpers, content negotiation, compression, the async mutex,
	// request-scoped tracing/logging, and the peer circuit breaker.
	c.useHelper("httpHelpers")
	c.useHelper("contentNegotiation")
	c.useHelper("compression")
	c.useHelper("asyncMutex")
	c.useHelper("requestContext")
	c.useHelper("circuitBreaker")

	c.write(fmt.Sprintf("// server %q — generated, do not edit by hand\n\n", label))
	c.write("import { AsyncLocalStorage } from \"node:async_hooks\";\n\n")
	c.write(fmt.Sprintf("const __PORT = Number(Bun.env.PORT_%s ?? Bun.env.PORT ?? 3000);\n", strings.ToUpper(sanitizeIdent(label)))
	c.write(fmt.Sprintf("const __NAME = %s;\n\n", jsStringLit(label)))

	for _, e := range envs {
		c.emitEnvVar(e)
	}
	c.write("\n")

	for _, d := range dbs {
		c.emitDbConfig(d)
	}
	for _, m := range models {
		c.emitModel(m)
	}
	for _, a := range auths {
		c.emitAuthConfig(a)
	}
	for _, s := range sessions {
		c.emitSessionConfig(s)
	}
	for _, r := range rateLimits {
		c.emitRateLimitConfig(r)
	}
	for _, cp := range compressions {
		c.emitCompressionConfig(cp)
	}
	for _, u := range uploads {
		c.emitUploadConfig(u)
	}
	for _, co := range corses {
		c.emitCorsConfig(co)
	}

	for _, stmt := range rest {
		if _, isFn := stmt.(*ast.FunctionDecl); isFn {
			c.write(c.EmitStmt(stmt, false) + "\n\n")
			continue
		}
		if out := c.EmitStmt(stmt, false); out != "" {
			c.write(out + "\n\n")
		}
	}

	c.write("const __middlewares = [\n")
	for _, m := range middlewares {
		c.write(indentLines(c.emitMiddlewareFn(m), 1) + ",\n")
	}
	c.write("];\n")
	c.write("const __compose = (mws, handler) => mws.reduceRight((next, mw) => (req) => mw(req, next), handler);\n\n")

	c.write("const __routes = [\n")
	for _, r := range routes {
		c.write(indentLines(c.emitRouteEntry(r), 1) + ",\n")
	}
	for _, fn := range rpcFuncs {
		c.write(indentLines(c.emitRPCEntry(fn), 1) + ",\n")
	}
	c.write("];\n\n")

	for _, s := range sses {
		c.write(c.emitSSEHandler(s) + "\n\n")
	}
	for _, w := range wss {
		c.write(c.emitWSHandlers(w) + "\n\n")
	}
	if len(backgrounds) > 0 {
		c.write("const __queue = [];\n")
		c.write("async function __drainQueue() { while (__queue.length) { const job = __queue.shift(); await job(); } }\n")
		c.write("setInterval(__drainQueue, 50);\n\n")
	}
	for _, b := range backgrounds {
		c.write(c.emitBackgroundJob(b) + "\n\n")
	}
	for _, s := range schedules {
		c.write(c.emitSchedule(s) + "\n\n")
	}
	for _, l := range lifecycles {
		c.write(c.emitLifecycle(l) + "\n\n")
	}
	c.write(c.emitHealthEndpoint(healths) + "\n\n")
	for _, st := range statics {
		c.write(c.emitStaticServe(st) + "\n\n")
	}

	c.write(c.emitOpenAPI(routes) + "\n\n")
	c.write(c.emitServeBootstrap(wss, len(rateLimits) > 0))

	return c.withHelperPreamble()
}

func sanitizeIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune('_')
	}
	return sb.String()
}

// sortRoutes orders the table by path specificity (more static segments
// first), then natural string order so `/users/2` precedes `/users/10`
// (spec §4.4 DOMAIN STACK row for maruel/natural).
func sortRoutes(routes []routeEntry) {
	sort.SliceStable(routes, func(i, j int) bool {
		si, sj := specificity(routes[i].path), specificity(routes[j].path)
		if si != sj {
			return si > sj
		}
		if routes[i].path != routes[j].path {
			return natural.Less(routes[i].path, routes[j].path)
		}
		return natural.Less(routes[i].method, routes[j].method)
	})
}

func specificity(path string) int {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	score := 0
	for _, s := range segs {
		if s == "" || strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			continue
		}
		score++
	}
	return score
}

func (c *Context) emitEnvVar(e *ast.EnvDecl) {
	def := "undefined"
	if e.Default != nil {
		def = c.EmitExpr(e.Default)
	}
	caster := "String"
	if t := e.Type; t != nil {
		if named, ok := t.(*ast.NamedType); ok {
			switch named.Name {
			case "Int", "Float":
				caster = "Number"
			case "Bool":
				caster = "Boolean"
			}
		}
	}
	c.linef("const %s = %s(Bun.env.%s ?? (%s));", e.Name, caster, e.Name, def)
}

func (c *Context) emitDbConfig(d *ast.DbDecl) {
	c.linef("const __db = { driver: %s, ...%s };", jsStringLit(d.Driver), c.emitObjectPropsLiteral(d.Props))
}

func (c *Context) emitObjectPropsLiteral(props []ast.ObjectProp) string {
	return c.EmitExpr(&ast.ObjectLit{Props: props})
}

// emitModel derives a table schema from the shared `type` the model names,
// consulting the registry populated by the analyzer (spec §4.4 "ORM/Model
// emission ... schema derived from the shared type T").
func (c *Context) emitModel(m *ast.ModelDecl) {
	fields := map[string]types.Type{}
	if rec, ok := c.registry.Lookup(m.Name); ok {
		if r, ok := rec.(types.Record); ok {
			fields = r.Fields
		}
	}
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = fmt.Sprintf("%s: %s", jsStringLit(n), jsStringLit(sqlType(fields[n])))
	}
	c.linef("const __model_%s = { table: %s, columns: { %s } };", m.Name, jsStringLit(strings.ToLower(m.Name)+"s"), strings.Join(cols, ", "))
}

func sqlType(t types.Type) string {
	switch v := t.(type) {
	case types.Primitive:
		switch v.Name {
		case "Int":
			return "INTEGER"
		case "Float":
			return "REAL"
		case "Bool":
			return "BOOLEAN"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func (c *Context) emitAuthConfig(a *ast.AuthDecl) {
	c.linef("const __auth = { strategy: %s, ...%s };", jsStringLit(a.Strategy), c.emitObjectPropsLiteral(a.Props))
}

func (c *Context) emitSessionConfig(s *ast.SessionDecl) {
	c.linef("const __session = { store: %s, ...%s };", jsStringLit(s.Store), c.emitObjectPropsLiteral(s.Props))
}

// emitRateLimitConfig builds the sliding-window limiter and wires it to a
// callable `__rateLimitAllow(key)`, consulted by __handleRequest before a
// request is routed (spec §4.4 "rate limiting with sliding-window
// counter").
func (c *Context) emitRateLimitConfig(r *ast.RateLimitDecl) {
	c.useHelper("rateLimiter")
	c.linef("const __rateLimit = %s;", c.emitObjectPropsLiteral(r.Props))
	c.linef("const __rateLimitAllow = __makeRateLimiter(__rateLimit.limit ?? 100, __parseWindowMs(__rateLimit.window ?? \"1m\"));")
}

func (c *Context) emitCompressionConfig(cp *ast.CompressionDecl) {
	c.linef("const __compression = %s;", c.emitObjectPropsLiteral(cp.Props))
}

func (c *Context) emitUploadConfig(u *ast.UploadDecl) {
	c.linef("const __upload = %s;", c.emitObjectPropsLiteral(u.Props))
}

func (c *Context) emitCorsConfig(co *ast.CorsDecl) {
	c.linef("const __cors = %s;", c.emitObjectPropsLiteral(co.Props))
}

func (c *Context) emitMiddlewareFn(m *ast.MiddlewareDecl) string {
	params := renderParams(m.Params, c)
	params = append(params, "next")
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(m.Body) })
	return fmt.Sprintf("async (%s) => %s", strings.Join(params, ", "), body)
}

// emitRouteEntry renders one route table row; its handler is wrapped with
// the declared middleware chain composed via reduceRight (spec §4.4).
func (c *Context) emitRouteEntry(r routeEntry) string {
	params := renderParams(r.decl.Params, c)
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(r.decl.Body) })
	handler := fmt.Sprintf("__compose(__middlewares, async (%s) => %s)", strings.Join(params, ", "), body)
	return fmt.Sprintf("{ method: %s, path: %s, handler: %s }", jsStringLit(strings.ToUpper(r.method)), jsStringLit(r.path), handler)
}

// emitRPCEntry auto-generates `POST /rpc/<name>` for a top-level server
// function (spec §4.4 "RPC functions auto-get POST /rpc/<name> handlers
// that accept positional or named arguments").
func (c *Context) emitRPCEntry(fn *ast.FunctionDecl) string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	handler := fmt.Sprintf(
		"async (req) => { const __body = await req.json().catch(() => ({})); const __args = Array.isArray(__body.__args) ? __body.__args : [%s].map((n) => __body[n]); try { const result = await %s(...__args); return Response.json({ result }); } catch (err) { return Response.json({ error: { message: String(err && err.message || err) } }, { status: 400 }); } }",
		strings.Join(quoteAll(names), ", "), fn.Name)
	return fmt.Sprintf("{ method: %s, path: %s, handler: %s }", jsStringLit("POST"), jsStringLit("/rpc/"+fn.Name), handler)
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = jsStringLit(n)
	}
	return out
}

func (c *Context) emitSSEHandler(s *ast.SseDecl) string {
	params := renderParams(s.Params, c)
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(s.Body) })
	return fmt.Sprintf("const __sse_%s = { path: %s, handler: async (%s, send) => %s };",
		sanitizeIdent(s.Path), jsStringLit(s.Path), strings.Join(params, ", "), body)
}

func (c *Context) emitWSHandlers(w *ast.WsDecl) string {
	name := sanitizeIdent(w.Path)
	onOpen := "() => {}"
	if w.OnOpen != nil {
		onOpen = "(ws) => " + c.withFreshDeclared(func() string { return c.emitFunctionBody(w.OnOpen) })
	}
	onMessage := "() => {}"
	if w.OnMessage != nil {
		onMessage = "(ws, data) => " + c.withFreshDeclared(func() string { return c.emitFunctionBody(w.OnMessage) })
	}
	onClose := "() => {}"
	if w.OnClose != nil {
		onClose = "(ws, code, reason) => " + c.withFreshDeclared(func() string { return c.emitFunctionBody(w.OnClose) })
	}
	return fmt.Sprintf("const __ws_%s = { path: %s, rooms: new Map(), open: %s, message: %s, close: %s };",
		name, jsStringLit(w.Path), onOpen, onMessage, onClose)
}

// emitBackgroundJob emits the job body as `__run_<name>` plus an `enqueue`
// helper that pushes a thunk onto the shared __queue (spec §4.4
// "background-job queue").
func (c *Context) emitBackgroundJob(b *ast.BackgroundDecl) string {
	params := renderParams(b.Params, c)
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(b.Body) })
	return fmt.Sprintf("async function __run_%s(%s) %s\nfunction %s(...args) { __queue.push(() => __run_%s(...args)); }",
		b.Name, strings.Join(params, ", "), body, b.Name, b.Name)
}

// emitSchedule compiles `schedule "spec" { body }` to a setInterval-driven
// runner; cron specs are parsed at runtime by a small helper, simple
// interval strings (`5m`, `30s`) are converted directly to milliseconds.
func (c *Context) emitSchedule(s *ast.ScheduleDecl) string {
	c.useHelper("parseSchedule")
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(s.Body) })
	return fmt.Sprintf("__scheduleJob(%s, async () => %s);", jsStringLit(s.Spec), body)
}

func (c *Context) emitLifecycle(l *ast.LifecycleDecl) string {
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(l.Body) })
	event := map[ast.LifecycleKind]string{
		ast.OnStart: "process.on('__tova_start', async () => %s);",
		ast.OnStop:  "process.on('SIGINT', async () => { %s process.exit(0); }); process.on('SIGTERM', async () => { %s process.exit(0); });",
		ast.OnError: "process.on('unhandledRejection', async (err) => { const error = err; %s });",
	}[l.Kind]
	fnLiteral := "async () => " + body
	if l.Kind == ast.OnStart {
		return fmt.Sprintf(event, fnLiteral)
	}
	if l.Kind == ast.OnStop {
		return fmt.Sprintf(event, body, body)
	}
	return fmt.Sprintf(event, body)
}

func (c *Context) emitHealthEndpoint(healths []*ast.HealthDecl) string {
	if len(healths) == 0 {
		return "const __health = async () => Response.json({ status: 'ok', uptime: process.uptime() });"
	}
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(healths[0].Body) })
	return "const __health = async () => " + body + ";"
}

func (c *Context) emitStaticServe(s *ast.StaticDecl) string {
	c.useHelper("etag")
	return fmt.Sprintf("const __static_%s = { path: %s, dir: %s };", sanitizeIdent(s.Path), jsStringLit(s.Path), jsStringLit(s.Dir))
}

// emitOpenAPI builds the 3.0.3 spec object the `/openapi.json` route
// returns (spec §6 "GET /openapi.json returns a 3.0.3 spec").
func (c *Context) emitOpenAPI(routes []routeEntry) string {
	var paths []string
	for _, r := range routes {
		paths = append(paths, fmt.Sprintf("%s: { %s: { responses: { \"200\": { description: \"OK\" } } } }",
			jsStringLit(r.path), strings.ToLower(r.method)))
	}
	return fmt.Sprintf("const __openapi = { openapi: \"3.0.3\", info: { title: __NAME, version: \"1.0.0\" }, paths: { %s } };",
		strings.Join(paths, ", "))
}

// emitServeBootstrap wires the route table, SSE/WS upgrades, static/health
// endpoints, and graceful shutdown into a single Bun.serve() call. Every
// request runs inside an AsyncLocalStorage context carrying its request
// id (spec §4.4 "AsyncLocalStorage-based request context for distributed
// tracing"), is structurally logged on entry/exit, optionally
// rate-limited, and has its final Response passed through compression
// before it leaves __handleRequest.
func (c *Context) emitServeBootstrap(wss []*ast.WsDecl, rateLimited bool) string {
	var sb strings.Builder
	sb.WriteString("let __activeRequests = 0;\n\n")
	sb.WriteString("async function __handleRequest(req) {\n")
	sb.WriteString("  const requestId = __requestId();\n")
	sb.WriteString("  return __als.run({ requestId }, async () => {\n")
	sb.WriteString("  __activeRequests++;\n")
	sb.WriteString("  __log('info', 'request.start', { method: req.method, url: req.url });\n")
	sb.WriteString("  try {\n")
	sb.WriteString("    const url = new URL(req.url);\n")
	if rateLimited {
		sb.WriteString("    if (!__rateLimitAllow(req.headers.get('x-forwarded-for') || url.pathname)) {\n")
		sb.WriteString("      __log('warn', 'request.rate_limited', { url: req.url });\n")
		sb.WriteString("      return new Response('Too Many Requests', { status: 429 });\n")
		sb.WriteString("    }\n")
	}
	sb.WriteString("    if (url.pathname === '/health') {\n")
	sb.WriteString("      const h = await __health();\n")
	sb.WriteString("      return await __compress(req, h instanceof Response ? h : __negotiate(req, h));\n")
	sb.WriteString("    }\n")
	sb.WriteString("    if (url.pathname === '/openapi.json') return await __compress(req, Response.json(__openapi));\n")
	sb.WriteString("    if (url.pathname === '/docs') return new Response(__swaggerHTML(), { headers: { 'content-type': 'text/html' } });\n")
	sb.WriteString("    for (const route of __routes) {\n")
	sb.WriteString("      const match = __matchRoute(route.path, url.pathname);\n")
	sb.WriteString("      if (match && route.method === req.method) {\n")
	sb.WriteString("        req.params = match;\n")
	sb.WriteString("        const result = await route.handler(req);\n")
	sb.WriteString("        const response = result instanceof Response ? result : __negotiate(req, result);\n")
	sb.WriteString("        return await __compress(req, response);\n")
	sb.WriteString("      }\n")
	sb.WriteString("    }\n")
	sb.WriteString("    return new Response('Not Found', { status: 404 });\n")
	sb.WriteString("  } catch (err) {\n")
	sb.WriteString("    __log('error', 'request.failed', { url: req.url, error: String(err && err.message || err) });\n")
	sb.WriteString("    throw err;\n")
	sb.WriteString("  } finally {\n")
	sb.WriteString("    __activeRequests--;\n")
	sb.WriteString("    __log('info', 'request.end', { url: req.url });\n")
	sb.WriteString("  }\n")
	sb.WriteString("  });\n")
	sb.WriteString("}\n\n")

	sb.WriteString("function __matchRoute(pattern, pathname) {\n")
	sb.WriteString("  const pParts = pattern.split('/').filter(Boolean);\n")
	sb.WriteString("  const aParts = pathname.split('/').filter(Boolean);\n")
	sb.WriteString("  if (pParts.length !== aParts.length) return null;\n")
	sb.WriteString("  const params = {};\n")
	sb.WriteString("  for (let i = 0; i < pParts.length; i++) {\n")
	sb.WriteString("    if (pParts[i].startsWith(':')) { params[pParts[i].slice(1)] = aParts[i]; continue; }\n")
	sb.WriteString("    if (pParts[i] !== aParts[i]) return null;\n")
	sb.WriteString("  }\n")
	sb.WriteString("  return params;\n")
	sb.WriteString("}\n\n")

	sb.WriteString("function __swaggerHTML() {\n")
	sb.WriteString("  return `<!doctype html><html><head><title>${__NAME} docs</title></head><body><div id=\"swagger-ui\"></div>` +\n")
	sb.WriteString("    `<script src=\"https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js\"></script>` +\n")
	sb.WriteString("    `<script>window.onload = () => SwaggerUIBundle({ url: '/openapi.json', dom_id: '#swagger-ui' });</script></body></html>`;\n")
	sb.WriteString("}\n\n")

	websocketOpt := "undefined"
	if len(wss) > 0 {
		names := make([]string, len(wss))
		for i, w := range wss {
			names[i] = sanitizeIdent(w.Path)
		}
		var sockSb strings.Builder
		sockSb.WriteString("{\n")
		sockSb.WriteString("    open(ws) { const sock = __wsFor(ws.data.pathname); sock?.open(ws); },\n")
		sockSb.WriteString("    message(ws, data) { const sock = __wsFor(ws.data.pathname); sock?.message(ws, data); },\n")
		sockSb.WriteString("    close(ws, code, reason) { const sock = __wsFor(ws.data.pathname); sock?.close(ws, code, reason); },\n")
		sockSb.WriteString("  }")
		websocketOpt = sockSb.String()
		sb.WriteString(fmt.Sprintf("const __wsRegistry = { %s };\n", strings.Join(wsRegistryEntries(names), ", ")))
		sb.WriteString("function __wsFor(pathname) { return __wsRegistry[pathname]; }\n\n")
	}

	sb.WriteString("const __server = Bun.serve({\n")
	sb.WriteString("  port: __PORT,\n")
	sb.WriteString("  fetch(req, server) {\n")
	if len(wss) > 0 {
		sb.WriteString("    const url = new URL(req.url);\n")
		sb.WriteString("    if (__wsFor(url.pathname) && server.upgrade(req, { data: { pathname: url.pathname } })) return;\n")
	}
	sb.WriteString("    return __handleRequest(req);\n")
	sb.WriteString("  },\n")
	sb.WriteString(fmt.Sprintf("  websocket: %s,\n", websocketOpt))
	sb.WriteString("});\n\n")
	sb.WriteString(fmt.Sprintf("console.log(`[${__NAME}] listening on :${__PORT}`);\n"))
	sb.WriteString("export { __handleRequest, __server };\n")
	return sb.String()
}

func wsRegistryEntries(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("[__ws_%s.path]: __ws_%s", n, n)
	}
	return out
}
