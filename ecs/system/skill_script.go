package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// skillRuntime is one compiled skill script. Scripts define
// update(engine, state) and call engine.finish() when done.
type skillRuntime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	finished  bool
}

const skillDispatchScript = `
update(__engine, __state)
`

func compileSkill(path string, src []byte) (*skillRuntime, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + skillDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return &skillRuntime{
		path:      path,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// update runs one frame of the script and reports whether it finished.
// Faults the VM raises as panics come back as errors.
func (rt *skillRuntime) update(engine *skillEngine) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			done, err = false, fmt.Errorf("skill %s: panic: %v", rt.path, r)
		}
	}()
	if engine.set.ActiveFrame == 0 {
		rt.stateData = &tengo.Map{Value: map[string]tengo.Object{}}
	}
	rt.finished = false

	if err := rt.compiled.Set("__engine", engine.object()); err != nil {
		return false, err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return false, err
	}
	if err := rt.compiled.Run(); err != nil {
		return false, err
	}
	return rt.finished, nil
}

type skillEngine struct {
	w   *ecs.World
	e   ecs.Entity
	set *component.SkillSet
	rt  *skillRuntime
}

func newSkillEngine(w *ecs.World, e ecs.Entity, set *component.SkillSet, rt *skillRuntime) *skillEngine {
	return &skillEngine{w: w, e: e, set: set, rt: rt}
}

func (se *skillEngine) object() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(se.set.ActiveFrame)}, nil
	}}

	values["finish"] = &tengo.UserFunction{Name: "finish", Value: func(args ...tengo.Object) (tengo.Object, error) {
		se.rt.finished = true
		return tengo.TrueValue, nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		body, ok := ecs.Get(se.w, se.e, component.PhysicsBodyComponent.Kind())
		if !ok || body.Body == nil {
			return tengo.FalseValue, nil
		}
		body.Body.SetVelocity(objectAsFloat(args[0]), objectAsFloat(args[1]))
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v := Velocity(se.w, se.e)
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}, nil
	}}

	values["facing"] = &tengo.UserFunction{Name: "facing", Value: func(args ...tengo.Object) (tengo.Object, error) {
		facing := 1.0
		if t, ok := ecs.Get(se.w, se.e, component.TransformComponent.Kind()); ok && t.Facing < 0 {
			facing = -1
		}
		return &tengo.Float{Value: facing}, nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if g, ok := ecs.Get(se.w, se.e, component.GroundComponent.Kind()); ok && g.Grounded {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectAsString(arg))
		}
		fmt.Printf("skill: entity=%s %s: %s\n", se.e, se.rt.path, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return obj.String()
}

func objectAsFloat(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	default:
		return 0
	}
}
