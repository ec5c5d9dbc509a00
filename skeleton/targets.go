package skeleton

import (
	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// NewTemporal builds the durable-workflow-engine skeleton adapter.
func NewTemporal() *Converter {
	return New(Descriptor{
		Name:    "Temporal",
		Version: "0.1.0",
		Target:  convert.TargetTemporal,
		Features: []string{
			"durable_execution",
			"automatic_retries",
			"workflow_versioning",
		},
		SupportedComponents: []string{
			"genesis:agent",
			"genesis:prompt",
			"genesis:api_request",
			"genesis:mcp_tool",
			"genesis:knowledge_hub_search",
		},
		PlannedFeatures: []string{
			"workflow_definition_generation",
			"activity_mapping",
			"signal_handling",
			"durable_timers",
		},
		Limits: convert.Constraints{
			MaxComponents:      100,
			MaxConcurrentTasks: 50,
		},
		Fitness: []FitnessCheck{temporalFitness},
	})
}

// temporalFitness flags specifications with no goal: a durable workflow
// needs a completion condition to be worth scheduling.
func temporalFitness(s *spec.Specification) []convert.ValidationError {
	if s.Goal == "" {
		return []convert.ValidationError{{
			Code:    convert.CodeMissingField,
			Message: "required field missing: agentGoal (durable workflows need a completion goal)",
		}}
	}
	return nil
}

// NewKafka builds the streaming-topology skeleton adapter.
func NewKafka() *Converter {
	return New(Descriptor{
		Name:    "Kafka Streams",
		Version: "0.1.0",
		Target:  convert.TargetKafka,
		Features: []string{
			"stream_processing",
			"partitioned_scaling",
		},
		SupportedComponents: []string{
			"genesis:chat_input",
			"genesis:chat_output",
			"genesis:api_request",
			"genesis:agent",
		},
		PlannedFeatures: []string{
			"topology_generation",
			"exactly_once_semantics",
			"stream_joins",
			"state_stores",
		},
		Streaming: true,
		Limits: convert.Constraints{
			MaxComponents: 200,
		},
		Fitness: []FitnessCheck{kafkaFitness},
	})
}

// kafkaFitness flags specifications without a source and a sink: a
// streaming topology must consume from somewhere and produce to somewhere.
func kafkaFitness(s *spec.Specification) []convert.ValidationError {
	var errs []convert.ValidationError
	if !hasComponentMatching(s, "input") {
		errs = append(errs, convert.ValidationError{
			Code:    convert.CodeConstraintViolation,
			Message: "streaming topology requires an input (source) component",
		})
	}
	if !hasComponentMatching(s, "output") {
		errs = append(errs, convert.ValidationError{
			Code:    convert.CodeConstraintViolation,
			Message: "streaming topology requires an output (sink) component",
		})
	}
	return errs
}
