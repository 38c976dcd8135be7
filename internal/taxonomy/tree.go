package taxonomy

// Default builds the built-in three-level tree covering psychology,
// management and finance content. Panics only on a programming error in the
// static data, which the package tests guard against.
func Default() *Tree {
	tree, err := Build(defaultSpecs)
	if err != nil {
		panic(err)
	}
	return tree
}

var defaultSpecs = []NodeSpec{
	{
		Key: "psychology", DisplayName: "心理咨询",
		Children: []NodeSpec{
			{
				Key: "clinical", DisplayName: "临床心理",
				Children: []NodeSpec{
					{Key: "depression", DisplayName: "抑郁障碍", Keywords: []string{"抑郁症", "抑郁发作", "重度抑郁", "轻度抑郁", "双相抑郁"}},
					{Key: "anxiety", DisplayName: "焦虑障碍", Keywords: []string{"焦虑症", "广泛性焦虑", "惊恐发作", "恐惧症", "强迫症"}},
					{Key: "obsessive_compulsive", DisplayName: "强迫障碍", Keywords: []string{"强迫症", "强迫行为", "强迫思维", "OCD"}},
					{Key: "phobia", DisplayName: "恐惧症", Keywords: []string{"恐惧症", "社交恐惧", "广场恐惧", "特定恐惧"}},
					{Key: "bipolar", DisplayName: "双相障碍", Keywords: []string{"双相情感障碍", "躁郁症", "躁狂发作", "双相"}},
					{Key: "insomnia", DisplayName: "睡眠障碍", Keywords: []string{"失眠症", "睡眠障碍", "嗜睡症", "睡眠呼吸暂停"}},
					{Key: "eating_disorder", DisplayName: "进食障碍", Keywords: []string{"厌食症", "贪食症", "暴食症", "进食障碍"}},
					{Key: "ptsd", DisplayName: "创伤应激", Keywords: []string{"PTSD", "创伤后应激障碍", "急性应激障碍", "创伤"}},
				},
			},
			{
				Key: "therapy", DisplayName: "咨询技术",
				Children: []NodeSpec{
					{Key: "cbt", DisplayName: "认知行为疗法", Keywords: []string{"认知行为疗法", "CBT", "认知重构", "行为激活", "暴露疗法"}},
					{Key: "psychodynamic", DisplayName: "精神分析", Keywords: []string{"精神分析", "心理动力学", "移情", "反移情", "自由联想"}},
					{Key: "person_centered", DisplayName: "人本主义", Keywords: []string{"人本主义", "当事人中心", "罗杰斯", "无条件积极关注"}},
					{Key: "family_therapy", DisplayName: "家庭治疗", Keywords: []string{"家庭治疗", "夫妻治疗", "婚姻治疗", "系统式家庭治疗"}},
					{Key: "art_therapy", DisplayName: "艺术治疗", Keywords: []string{"艺术治疗", "音乐治疗", "绘画治疗", "沙盘治疗", "表达性艺术治疗"}},
					{Key: "group_therapy", DisplayName: "团体治疗", Keywords: []string{"团体治疗", "小组治疗", "团体辅导", "心理剧"}},
				},
			},
			{
				Key: "developmental", DisplayName: "发展心理",
				Children: []NodeSpec{
					{Key: "child", DisplayName: "儿童心理", Keywords: []string{"儿童心理", "儿童发展", "幼儿心理", "儿童行为问题"}},
					{Key: "adolescent", DisplayName: "青少年心理", Keywords: []string{"青少年心理", "青春期", "叛逆期", "青少年问题"}},
					{Key: "adult", DisplayName: "成年心理", Keywords: []string{"成年心理", "中年危机", "成年发展"}},
					{Key: "elderly", DisplayName: "老年心理", Keywords: []string{"老年心理", "老龄化", "老年抑郁", "认知障碍"}},
				},
			},
			{
				Key: "relationship", DisplayName: "婚恋家庭",
				Children: []NodeSpec{
					{Key: "marriage", DisplayName: "婚姻咨询", Keywords: []string{"婚姻咨询", "夫妻关系", "婚姻危机", "婚姻经营"}},
					{Key: "dating", DisplayName: "恋爱心理", Keywords: []string{"恋爱心理", "情感关系", "约会技巧", "亲密关系"}},
					{Key: "family", DisplayName: "家庭关系", Keywords: []string{"家庭关系", "亲子关系", "婆媳关系", "家庭沟通"}},
					{Key: "divorce", DisplayName: "离婚心理", Keywords: []string{"离婚心理", "离异", "离婚调适", "单亲家庭"}},
				},
			},
			{
				Key: "workplace", DisplayName: "职场心理",
				Children: []NodeSpec{
					{Key: "career", DisplayName: "职业规划", Keywords: []string{"职业规划", "职业发展", "职业选择", "转行"}},
					{Key: "work_stress", DisplayName: "工作压力", Keywords: []string{"工作压力", "职业倦怠", "过劳", "压力管理"}},
					{Key: "leadership_psych", DisplayName: "领导力心理", Keywords: []string{"领导力心理", "管理心理", "决策心理", "影响力"}},
					{Key: "workplace_conflict", DisplayName: "职场人际", Keywords: []string{"职场人际", "同事关系", "职场沟通", "职场霸凌"}},
				},
			},
			{
				Key: "emotion", DisplayName: "情绪管理",
				Children: []NodeSpec{
					{Key: "emotion_regulation", DisplayName: "情绪调节", Keywords: []string{"情绪调节", "情绪管理", "情绪控制", "情商"}},
					{Key: "anger", DisplayName: "愤怒管理", Keywords: []string{"愤怒管理", "控制愤怒", "情绪宣泄"}},
					{Key: "stress", DisplayName: "压力管理", Keywords: []string{"压力管理", "减压", "应对压力", "心理压力"}},
					{Key: "resilience", DisplayName: "心理韧性", Keywords: []string{"心理韧性", "抗逆力", "复原力", "心理资本"}},
				},
			},
		},
	},
	{
		Key: "management", DisplayName: "企业管理",
		Children: []NodeSpec{
			{
				Key: "strategy", DisplayName: "战略管理",
				Children: []NodeSpec{
					{Key: "corporate_strategy", DisplayName: "企业战略", Keywords: []string{"企业战略", "公司战略", "战略规划", "战略目标"}},
					{Key: "business_strategy", DisplayName: "业务战略", Keywords: []string{"业务战略", "竞争战略", "差异化战略", "成本领先"}},
					{Key: "blue_ocean", DisplayName: "蓝海战略", Keywords: []string{"蓝海战略", "价值创新", "红海", "市场创新"}},
					{Key: "strategic_analysis", DisplayName: "战略分析", Keywords: []string{"SWOT分析", "PEST分析", "波特五力", "战略分析"}},
					{Key: "strategic_execution", DisplayName: "战略执行", Keywords: []string{"战略执行", "战略落地", "战略实施", "执行"}},
				},
			},
			{
				Key: "hr", DisplayName: "人力资源",
				Children: []NodeSpec{
					{Key: "hr_planning", DisplayName: "人力资源规划", Keywords: []string{"人力资源规划", "人力规划", "人才规划", "HR规划"}},
					{Key: "organization", DisplayName: "组织架构", Keywords: []string{"组织架构", "组织设计", "组织结构", "扁平化", "矩阵式"}},
					{Key: "position_system", DisplayName: "职位体系", Keywords: []string{"职位体系", "岗位体系", "职位描述", "岗位分析", "胜任力模型"}},
					{Key: "compensation_benefits", DisplayName: "薪酬绩效", Keywords: []string{"薪酬管理", "绩效管理", "薪酬体系", "绩效考核", "KPI", "OKR", "股权激励"}},
					{Key: "talent_management", DisplayName: "人才管理", Keywords: []string{"人才管理", "人才发展", "人才盘点", "继任计划", "人才梯队"}},
					{Key: "recruitment", DisplayName: "招聘选拔", Keywords: []string{"招聘", "选拔", "面试", "人才引进", "校园招聘", "猎头"}},
					{Key: "training", DisplayName: "培训发展", Keywords: []string{"培训", "员工发展", "学习发展", "企业大学", "培训体系"}},
					{Key: "employee_relations", DisplayName: "员工关系", Keywords: []string{"员工关系", "劳动关系", "员工满意", "员工敬业度"}},
				},
			},
			{
				Key: "culture", DisplayName: "企业文化",
				Children: []NodeSpec{
					{Key: "culture_building", DisplayName: "文化建设", Keywords: []string{"企业文化建设", "文化落地", "文化塑造", "价值观"}},
					{Key: "culture_transformation", DisplayName: "文化变革", Keywords: []string{"文化变革", "文化转型", "组织变革", "变革管理"}},
					{Key: "employer_brand", DisplayName: "雇主品牌", Keywords: []string{"雇主品牌", "最佳雇主", "雇主形象", "员工体验"}},
					{Key: "org_behavior", DisplayName: "组织行为", Keywords: []string{"组织行为", "行为管理", "员工行为", "组织氛围"}},
				},
			},
			{
				Key: "operations", DisplayName: "运营管理",
				Children: []NodeSpec{
					{Key: "supply_chain", DisplayName: "供应链管理", Keywords: []string{"供应链管理", "供应链", "采购管理", "物流管理", "供应商管理"}},
					{Key: "process_optimization", DisplayName: "流程优化", Keywords: []string{"流程优化", "业务流程", "流程再造", "BPR", "精益管理"}},
					{Key: "quality_control", DisplayName: "质量管理", Keywords: []string{"质量管理", "质量控制", "六西格玛", "QA", "QC"}},
					{Key: "project_management", DisplayName: "项目管理", Keywords: []string{"项目管理", "敏捷开发", "Scrum", "项目控制", "PM"}},
					{Key: "lean_production", DisplayName: "精益生产", Keywords: []string{"精益生产", "5S", "TPS", "丰田生产方式"}},
				},
			},
			{
				Key: "marketing", DisplayName: "市场营销",
				Children: []NodeSpec{
					{Key: "brand_management", DisplayName: "品牌管理", Keywords: []string{"品牌管理", "品牌建设", "品牌策略", "品牌定位"}},
					{Key: "digital_marketing", DisplayName: "数字营销", Keywords: []string{"数字营销", "网络营销", "新媒体营销", "社交媒体营销"}},
					{Key: "market_research", DisplayName: "市场调研", Keywords: []string{"市场调研", "市场研究", "用户调研", "消费者洞察"}},
					{Key: "product_marketing", DisplayName: "产品营销", Keywords: []string{"产品营销", "产品策略", "产品定位", "产品生命周期"}},
					{Key: "customer_strategy", DisplayName: "客户策略", Keywords: []string{"客户关系", "CRM", "客户运营", "用户增长", "私域流量"}},
					{Key: "sales_management", DisplayName: "销售管理", Keywords: []string{"销售管理", "销售技巧", "渠道管理", "销售团队"}},
				},
			},
			{
				Key: "innovation", DisplayName: "创新管理",
				Children: []NodeSpec{
					{Key: "product_innovation", DisplayName: "产品创新", Keywords: []string{"产品创新", "产品研发", "R&D", "研发管理"}},
					{Key: "business_model", DisplayName: "商业模式", Keywords: []string{"商业模式", "商业创新", "盈利模式", "平台模式"}},
					{Key: "digital_transformation", DisplayName: "数字化转型", Keywords: []string{"数字化转型", "数字化", "信息化", "企业数字化"}},
					{Key: "open_innovation", DisplayName: "开放式创新", Keywords: []string{"开放式创新", "协同创新", "生态创新"}},
				},
			},
			{
				Key: "leadership", DisplayName: "领导力发展",
				Children: []NodeSpec{
					{Key: "executive_leadership", DisplayName: "高管领导力", Keywords: []string{"CEO", "高管", "高管团队", "决策层", "董事会"}},
					{Key: "middle_management", DisplayName: "中层管理", Keywords: []string{"中层管理", "部门经理", "团队主管", "管理技能"}},
					{Key: "leadership_dev", DisplayName: "领导力发展", Keywords: []string{"领导力发展", "领导力培养", "领导梯队", "潜能开发"}},
					{Key: "decision_making", DisplayName: "决策管理", Keywords: []string{"决策管理", "决策方法", "科学决策", "数据决策"}},
				},
			},
		},
	},
	{
		Key: "finance", DisplayName: "财务会计税务",
		Children: []NodeSpec{
			{
				Key: "financial_accounting", DisplayName: "财务会计",
				Children: []NodeSpec{
					{Key: "accounting_standards", DisplayName: "会计准则", Keywords: []string{"会计准则", "企业会计准则", "IAS", "IFRS", "GAAP"}},
					{Key: "financial_statements", DisplayName: "财务报表", Keywords: []string{"财务报表", "资产负债表", "利润表", "现金流量表", "所有者权益变动表"}},
					{Key: "accounting_cycle", DisplayName: "会计核算", Keywords: []string{"会计核算", "记账", "凭证", "账簿", "会计分录"}},
					{Key: "accounting_systems", DisplayName: "会计制度", Keywords: []string{"会计制度", "财务制度", "内控制度", "会计政策"}},
				},
			},
			{
				Key: "management_accounting", DisplayName: "管理会计",
				Children: []NodeSpec{
					{Key: "cost_accounting", DisplayName: "成本会计", Keywords: []string{"成本会计", "成本核算", "成本控制", "标准成本", "作业成本"}},
					{Key: "budget_management", DisplayName: "预算管理", Keywords: []string{"预算管理", "全面预算", "预算编制", "预算执行", "预算考核"}},
					{Key: "performance_measurement", DisplayName: "绩效管理", Keywords: []string{"绩效管理", "绩效评价", "KPI", "平衡计分卡", "责任会计"}},
					{Key: "internal_control", DisplayName: "内部控制", Keywords: []string{"内部控制", "风险管理", "COSO", "风险控制", "合规管理"}},
				},
			},
			{
				Key: "tax", DisplayName: "税务",
				Children: []NodeSpec{
					{Key: "vat", DisplayName: "增值税", Keywords: []string{"增值税", "进项税", "销项税", "增值税专用发票", "小规模纳税人"}},
					{Key: "corporate_tax", DisplayName: "企业所得税", Keywords: []string{"企业所得税", "企业税收", "汇算清缴", "应纳税所得额"}},
					{Key: "personal_tax", DisplayName: "个人所得税", Keywords: []string{"个人所得税", "个税", "专项扣除", "工资薪金"}},
					{Key: "tax_planning", DisplayName: "税务筹划", Keywords: []string{"税务筹划", "税收筹划", "节税", "合理避税"}},
					{Key: "tax_compliance", DisplayName: "税务申报", Keywords: []string{"税务申报", "报税", "纳税申报", "电子税务局"}},
					{Key: "other_taxes", DisplayName: "其他税种", Keywords: []string{"印花税", "城建税", "教育费附加", "土地增值税", "房产税", "契税"}},
				},
			},
			{
				Key: "audit", DisplayName: "审计",
				Children: []NodeSpec{
					{Key: "external_audit", DisplayName: "外部审计", Keywords: []string{"外部审计", "年报审计", "审计报告", "审计意见"}},
					{Key: "internal_audit", DisplayName: "内部审计", Keywords: []string{"内部审计", "内审", "审计部门", "审计程序"}},
					{Key: "audit_standards", DisplayName: "审计准则", Keywords: []string{"审计准则", "审计标准", "ISA", "审计规范"}},
				},
			},
			{
				Key: "financial_management", DisplayName: "财务管理",
				Children: []NodeSpec{
					{Key: "financial_analysis", DisplayName: "财务分析", Keywords: []string{"财务分析", "财务比率", "杜邦分析", "财务指标", "盈利能力"}},
					{Key: "investment_decision", DisplayName: "投资决策", Keywords: []string{"投资决策", "资本预算", "NPV", "IRR", "投资回报"}},
					{Key: "financing", DisplayName: "融资管理", Keywords: []string{"融资", "股权融资", "债权融资", "IPO", "私募融资"}},
					{Key: "working_capital", DisplayName: "营运资金", Keywords: []string{"营运资金", "流动资金", "现金流管理", "资金管理"}},
					{Key: "cfo_role", DisplayName: "财务总监", Keywords: []string{"CFO", "财务总监", "首席财务官", "财务高管"}},
				},
			},
			{
				Key: "financial_report", DisplayName: "财务报告",
				Children: []NodeSpec{
					{Key: "report_disclosure", DisplayName: "信息披露", Keywords: []string{"信息披露", "定期报告", "临时公告", "证监会"}},
					{Key: "consolidated_statements", DisplayName: "合并报表", Keywords: []string{"合并报表", "合并财务报表", "母公司", "子公司"}},
					{Key: "segment_reporting", DisplayName: "分部报告", Keywords: []string{"分部报告", "业务分部", "地区分部"}},
				},
			},
		},
	},
}
