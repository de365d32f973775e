package vkng

import (
	"reflect"

	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/jnkdev/vkprog/gpu"
)

// fieldAliases covers PhysicalDeviceFeatures fields whose Go name does not
// normalize to the Vulkan member name.
var fieldAliases = map[string]gpu.Features{
	"TextureCompressionAstcLdc": gpu.FeatureTextureCompressionASTCLDR,
}

// featureFields maps each bool field index of core1_0.PhysicalDeviceFeatures
// to its gpu.Features bit. unmappedFields lists bool fields with no bit.
var featureFields, unmappedFields = mapFeatureFields(reflect.TypeOf(core1_0.PhysicalDeviceFeatures{}))

func mapFeatureFields(t reflect.Type) (map[int]gpu.Features, []string) {
	fields := make(map[int]gpu.Features)
	var unmapped []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Bool {
			continue
		}
		bit, ok := fieldAliases[field.Name]
		if !ok {
			var err error
			if bit, err = gpu.ParseFeatures(field.Name); err != nil {
				unmapped = append(unmapped, field.Name)
				continue
			}
		}
		fields[i] = bit
	}
	return fields, unmapped
}

func fromFeatureStruct(f *core1_0.PhysicalDeviceFeatures) gpu.Features {
	if f == nil {
		return 0
	}
	var out gpu.Features
	v := reflect.ValueOf(f).Elem()
	for i, bit := range featureFields {
		if v.Field(i).Bool() {
			out |= bit
		}
	}
	return out
}

func toFeatureStruct(features gpu.Features) *core1_0.PhysicalDeviceFeatures {
	out := &core1_0.PhysicalDeviceFeatures{}
	v := reflect.ValueOf(out).Elem()
	for i, bit := range featureFields {
		if features.Has(bit) {
			v.Field(i).SetBool(true)
		}
	}
	return out
}
